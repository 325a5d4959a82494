package dynpar

import (
	"github.com/rs/zerolog"
	"github.com/san-kum/dynpar/internal/astro"
)

// LogObserver writes one debug event per iteration and an info event when
// the run converges.
type LogObserver struct {
	log    zerolog.Logger
	consts astro.Constants
}

func NewLogObserver(log zerolog.Logger, c astro.Constants) *LogObserver {
	return &LogObserver{
		log:    log.With().Str("component", "dynpar").Logger(),
		consts: c,
	}
}

func (o *LogObserver) OnIteration(state IterationState, converged bool) {
	r := state.Readings(o.consts)
	o.log.Debug().
		Int("iteration", r.Index).
		Float64("a_au", r.SemiMajorAxisAU).
		Float64("d_pc", r.DistancePc).
		Float64("m1", r.Mass1).
		Float64("m2", r.Mass2).
		Msg("iteration")

	if converged {
		o.log.Info().
			Int("iterations", r.Index).
			Float64("d_pc", r.DistancePc).
			Msg("converged")
	}
}
