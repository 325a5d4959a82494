// Package astro holds the physical constants and unit conversions used by the
// dynamical parallax solver.
package astro

import "math"

const (
	DefaultGravitational   = 6.6742e-11
	DefaultSolarMass       = 1.989e30
	DefaultSolarAbsMag     = 4.83
	DefaultSolarLuminosity = 3.846e26
	DefaultMassLumExponent = 3.5
	DefaultMetresPerAU     = 1.496e11
	DefaultAUPerParsec     = 206265
	DefaultArcsecPerRadian = 206265
	DefaultSecondsPerYear  = 31556926
)

// Constants groups every physical constant and unit factor a run depends on.
// SI units throughout: G in m^3 kg^-1 s^-2, SolarMass in kg, SolarLuminosity
// in W. The zero value is not usable; start from Default.
type Constants struct {
	G               float64 `yaml:"gravitational"`
	SolarMass       float64 `yaml:"solar_mass"`
	SolarAbsMag     float64 `yaml:"solar_abs_mag"`
	SolarLuminosity float64 `yaml:"solar_luminosity"`
	MassLumExponent float64 `yaml:"mass_luminosity_exponent"`
	MetresPerAU     float64 `yaml:"metres_per_au"`
	AUPerParsec     float64 `yaml:"au_per_parsec"`
	ArcsecPerRadian float64 `yaml:"arcsec_per_radian"`
	SecondsPerYear  float64 `yaml:"seconds_per_year"`
}

func Default() Constants {
	return Constants{
		G:               DefaultGravitational,
		SolarMass:       DefaultSolarMass,
		SolarAbsMag:     DefaultSolarAbsMag,
		SolarLuminosity: DefaultSolarLuminosity,
		MassLumExponent: DefaultMassLumExponent,
		MetresPerAU:     DefaultMetresPerAU,
		AUPerParsec:     DefaultAUPerParsec,
		ArcsecPerRadian: DefaultArcsecPerRadian,
		SecondsPerYear:  DefaultSecondsPerYear,
	}
}

// IsValid reports whether every constant is finite and strictly positive.
// SolarAbsMag is the exception: a magnitude only has to be finite.
func (c Constants) IsValid() bool {
	for _, v := range []float64{
		c.G, c.SolarMass, c.SolarLuminosity, c.MassLumExponent,
		c.MetresPerAU, c.AUPerParsec, c.ArcsecPerRadian, c.SecondsPerYear,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return false
		}
	}
	return !math.IsNaN(c.SolarAbsMag) && !math.IsInf(c.SolarAbsMag, 0)
}

// Merge returns c with every non-zero field of override applied on top.
func (c Constants) Merge(override Constants) Constants {
	pick := func(base, o float64) float64 {
		if o != 0 {
			return o
		}
		return base
	}
	return Constants{
		G:               pick(c.G, override.G),
		SolarMass:       pick(c.SolarMass, override.SolarMass),
		SolarAbsMag:     pick(c.SolarAbsMag, override.SolarAbsMag),
		SolarLuminosity: pick(c.SolarLuminosity, override.SolarLuminosity),
		MassLumExponent: pick(c.MassLumExponent, override.MassLumExponent),
		MetresPerAU:     pick(c.MetresPerAU, override.MetresPerAU),
		AUPerParsec:     pick(c.AUPerParsec, override.AUPerParsec),
		ArcsecPerRadian: pick(c.ArcsecPerRadian, override.ArcsecPerRadian),
		SecondsPerYear:  pick(c.SecondsPerYear, override.SecondsPerYear),
	}
}

func (c Constants) ArcsecToRadians(arcsec float64) float64 { return arcsec / c.ArcsecPerRadian }
func (c Constants) YearsToSeconds(years float64) float64   { return years * c.SecondsPerYear }
func (c Constants) SecondsToYears(s float64) float64       { return s / c.SecondsPerYear }
func (c Constants) MetresToAU(m float64) float64           { return m / c.MetresPerAU }

// MetresToParsecs goes through AU so that it matches how distances are built
// from the angular semi-major axis.
func (c Constants) MetresToParsecs(m float64) float64 {
	return m / c.MetresPerAU / c.AUPerParsec
}

func (c Constants) KgToSolarMasses(kg float64) float64 { return kg / c.SolarMass }
func (c Constants) WattsToSolar(w float64) float64     { return w / c.SolarLuminosity }
