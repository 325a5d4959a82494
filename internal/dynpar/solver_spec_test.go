package dynpar_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dynpar/internal/astro"
	"github.com/san-kum/dynpar/internal/dynpar"
)

var _ = Describe("Solver", func() {
	var (
		in  dynpar.Inputs
		cfg dynpar.Config
	)

	BeforeEach(func() {
		in = dynpar.Inputs{
			SemiMajorArcsec:   4.5,
			SemiMinorArcsec:   3.4,
			ApparentMag1:      3.9,
			ApparentMag2:      5.3,
			PartialOrbitYears: 11,
			Constants:         astro.Default(),
		}
		cfg = dynpar.DefaultConfig()
	})

	Context("with the textbook binary", func() {
		It("converges to the published estimates within ten iterations", func() {
			res, err := dynpar.Solve(context.Background(), in, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Converged).To(BeTrue())
			Expect(res.Iterations).To(BeNumerically("<=", 10))

			r := res.FinalReadings()
			Expect(res.PeriodYears()).To(BeNumerically("~", 95.6, 0.956))
			Expect(r.DistancePc).To(BeNumerically("~", 5.3, 0.053))
			Expect(r.AbsMag1).To(BeNumerically("~", 5.27, 0.0527))
			Expect(r.AbsMag2).To(BeNumerically("~", 6.67, 0.0667))
			Expect(r.Mass1).To(BeNumerically("~", 0.89, 0.0089))
			Expect(r.Mass2).To(BeNumerically("~", 0.62, 0.0062))
		})

		It("keeps the seed state at the head of the history", func() {
			res, err := dynpar.Solve(context.Background(), in, cfg)
			Expect(err).NotTo(HaveOccurred())

			seed := res.History.At(0)
			Expect(seed.Index).To(Equal(0))
			Expect(seed.Readings(in.Constants).Mass1).To(BeNumerically(">", res.FinalReadings().Mass1))
		})

		It("reports a period longer than the timed arc", func() {
			res, err := dynpar.Solve(context.Background(), in, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.PeriodYears()).To(BeNumerically(">", in.PartialOrbitYears))
		})
	})

	Context("with a degenerate orbit", func() {
		It("fails before iterating", func() {
			in.SemiMinorArcsec = in.SemiMajorArcsec

			res, err := dynpar.Solve(context.Background(), in, cfg)
			Expect(res).To(BeNil())
			Expect(err).To(MatchError(dynpar.ErrDomain))

			var de *dynpar.DomainError
			Expect(err).To(BeAssignableToTypeOf(de))
		})
	})

	Context("when the iteration cap is too small", func() {
		It("stops with a convergence error instead of looping", func() {
			cfg.MaxIterations = 1

			res, err := dynpar.Solve(context.Background(), in, cfg)
			Expect(err).To(MatchError(dynpar.ErrConvergence))
			Expect(res.Converged).To(BeFalse())
			Expect(res.History.Len()).To(Equal(2))
		})
	})

	Context("when the mass-luminosity relation drives the masses away", func() {
		It("ends with a convergence error carrying the failed stage", func() {
			in.Constants.MassLumExponent = 0.5

			res, err := dynpar.Solve(context.Background(), in, cfg)
			Expect(err).To(MatchError(dynpar.ErrConvergence))
			Expect(err).To(MatchError(dynpar.ErrDomain))
			Expect(res.Converged).To(BeFalse())
			Expect(res.Iterations).To(BeNumerically("<", cfg.MaxIterations))
		})
	})

	DescribeTable("other binaries converge",
		func(alpha, beta, mag1, mag2, years, wantPc float64) {
			in.SemiMajorArcsec, in.SemiMinorArcsec = alpha, beta
			in.ApparentMag1, in.ApparentMag2 = mag1, mag2
			in.PartialOrbitYears = years

			res, err := dynpar.Solve(context.Background(), in, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.DistanceParsecs()).To(BeNumerically("~", wantPc, wantPc*0.01))
		},
		Entry("bright pair", 4.5, 3.4, -1.0, 0.5, 11.0, 9.01),
		Entry("distant pair", 0.5, 0.3, 8.0, 9.0, 2.0, 24.82),
	)
})
