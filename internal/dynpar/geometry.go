package dynpar

import "math"

// OrbitGeometry is the apparent relative orbit, all in radians. It is computed
// once per run and never modified.
type OrbitGeometry struct {
	Alpha       float64 // apparent semi-major axis
	Beta        float64 // apparent semi-minor axis
	H           float64 // absolute eccentricity, sqrt(alpha^2 - beta^2)
	PartialArea float64 // area swept by the radius vector during the reference time
	TotalArea   float64
}

// NewOrbitGeometry requires alpha > beta > 0. Equal axes describe a circle,
// whose focus coincides with the centre and leaves no partial sweep to time.
func NewOrbitGeometry(alpha, beta float64) (OrbitGeometry, error) {
	switch {
	case !finite(alpha) || alpha <= 0:
		return OrbitGeometry{}, domainErr("alpha", alpha, "semi-major axis angle must be positive")
	case !finite(beta) || beta <= 0:
		return OrbitGeometry{}, domainErr("beta", beta, "semi-minor axis angle must be positive")
	case beta >= alpha:
		return OrbitGeometry{}, domainErr("beta", beta, "semi-minor axis must be smaller than semi-major axis")
	}

	h := math.Sqrt(alpha*alpha - beta*beta)
	partial := alpha * beta * (math.Acos(h/alpha) - (h/(alpha*alpha))*math.Sqrt(alpha*alpha-h*h))
	total := math.Pi * alpha * beta

	if !(partial > 0) || partial >= total {
		return OrbitGeometry{}, domainErr("partial_area", partial, "swept area must lie strictly inside the ellipse")
	}

	return OrbitGeometry{
		Alpha:       alpha,
		Beta:        beta,
		H:           h,
		PartialArea: partial,
		TotalArea:   total,
	}, nil
}

// Period scales the reference time by the ratio of areas (Kepler's second law).
// The result has the unit of tRef.
func Period(geom OrbitGeometry, tRef float64) (float64, error) {
	if !finite(tRef) || tRef <= 0 {
		return 0, domainErr("partial_orbit_time", tRef, "reference time must be positive")
	}
	if !(geom.PartialArea > 0) {
		return 0, domainErr("partial_area", geom.PartialArea, "swept area must be positive")
	}
	return geom.TotalArea / geom.PartialArea * tRef, nil
}
