package astro

import (
	"math"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if !Default().IsValid() {
		t.Error("default constants should be valid")
	}

	c := Default()
	c.SolarAbsMag = -26.7
	if !c.IsValid() {
		t.Error("a negative solar magnitude is still a valid magnitude")
	}

	tests := []struct {
		name   string
		mutate func(*Constants)
	}{
		{"zero G", func(c *Constants) { c.G = 0 }},
		{"negative mass", func(c *Constants) { c.SolarMass = -1 }},
		{"nan magnitude", func(c *Constants) { c.SolarAbsMag = math.NaN() }},
		{"inf parsec", func(c *Constants) { c.AUPerParsec = math.Inf(1) }},
	}
	for _, tt := range tests {
		c := Default()
		tt.mutate(&c)
		if c.IsValid() {
			t.Errorf("%s: expected invalid constants", tt.name)
		}
	}
}

func TestMerge(t *testing.T) {
	merged := Default().Merge(Constants{SolarAbsMag: 4.74, G: 6.674e-11})

	if merged.SolarAbsMag != 4.74 {
		t.Errorf("expected overridden magnitude 4.74, got %f", merged.SolarAbsMag)
	}
	if merged.G != 6.674e-11 {
		t.Errorf("expected overridden G, got %g", merged.G)
	}
	if merged.SolarMass != DefaultSolarMass {
		t.Errorf("expected default solar mass, got %g", merged.SolarMass)
	}
	if Default().Merge(Constants{}) != Default() {
		t.Error("merging the zero value should change nothing")
	}
}

func TestConversions(t *testing.T) {
	c := Default()

	if got := c.ArcsecToRadians(206265); math.Abs(got-1) > 1e-12 {
		t.Errorf("expected 1 rad, got %f", got)
	}
	if got := c.SecondsToYears(c.YearsToSeconds(11)); math.Abs(got-11) > 1e-12 {
		t.Errorf("expected 11 yr round trip, got %f", got)
	}
	if got := c.MetresToParsecs(c.MetresPerAU * c.AUPerParsec); math.Abs(got-1) > 1e-12 {
		t.Errorf("expected 1 pc, got %f", got)
	}
	if got := c.MetresToAU(2 * c.MetresPerAU); math.Abs(got-2) > 1e-12 {
		t.Errorf("expected 2 AU, got %f", got)
	}
	if got := c.KgToSolarMasses(c.SolarMass); got != 1 {
		t.Errorf("expected 1 solar mass, got %f", got)
	}
	if got := c.WattsToSolar(c.SolarLuminosity / 2); got != 0.5 {
		t.Errorf("expected 0.5 solar luminosities, got %f", got)
	}
}
