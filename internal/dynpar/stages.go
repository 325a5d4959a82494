package dynpar

import (
	"math"

	"github.com/san-kum/dynpar/internal/astro"
)

// SemiMajorAxis applies Kepler's third law. period is in seconds, masses in kg,
// and the result in metres.
func SemiMajorAxis(period, m1, m2, g float64) (float64, error) {
	switch {
	case !finite(period) || period <= 0:
		return 0, domainErr("period", period, "period must be positive")
	case !finite(m1) || m1 <= 0:
		return 0, domainErr("m1", m1, "mass must be positive")
	case !finite(m2) || m2 <= 0:
		return 0, domainErr("m2", m2, "mass must be positive")
	case !finite(g) || g <= 0:
		return 0, domainErr("G", g, "gravitational constant must be positive")
	}
	return math.Cbrt(period * period * g * (m1 + m2) / (4 * math.Pi * math.Pi)), nil
}

// Distance triangulates the observer distance from the physical and angular
// semi-major axes.
func Distance(a, alpha float64) (float64, error) {
	if !finite(alpha) || alpha <= 0 || alpha >= math.Pi/2 {
		return 0, domainErr("alpha", alpha, "angle must lie in (0, pi/2)")
	}
	if !finite(a) || a <= 0 {
		return 0, domainErr("semi_major_axis", a, "semi-major axis must be positive")
	}
	return a / math.Tan(alpha), nil
}

// AbsoluteMagnitude converts an apparent magnitude to the magnitude the star
// would have at 10 pc.
func AbsoluteMagnitude(apparent, distancePc float64) (float64, error) {
	if !finite(apparent) {
		return 0, domainErr("apparent_magnitude", apparent, "magnitude must be finite")
	}
	if !finite(distancePc) || distancePc <= 0 {
		return 0, domainErr("distance", distancePc, "distance must be positive")
	}
	return apparent + 5 - 5*math.Log10(distancePc), nil
}

// Luminosity follows Pogson's relation, relative to the Sun. Result in watts.
func Luminosity(absMag float64, c astro.Constants) (float64, error) {
	if !finite(absMag) {
		return 0, domainErr("absolute_magnitude", absMag, "magnitude must be finite")
	}
	lum := c.SolarLuminosity * math.Pow(10, -(absMag-c.SolarAbsMag)/2.5)
	if !finite(lum) || lum <= 0 {
		return 0, domainErr("luminosity", lum, "luminosity out of range")
	}
	return lum, nil
}

// MassFromLuminosity inverts the main-sequence relation L ~ m^3.5. Result in kg.
func MassFromLuminosity(lum float64, c astro.Constants) (float64, error) {
	if !finite(lum) || lum <= 0 {
		return 0, domainErr("luminosity", lum, "luminosity must be positive")
	}
	m := c.SolarMass * math.Pow(lum/c.SolarLuminosity, 1/c.MassLumExponent)
	if !finite(m) || m <= 0 {
		return 0, domainErr("mass", m, "mass out of range")
	}
	return m, nil
}
