package solver_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/polytrope/internal/emden"
	"github.com/san-kum/polytrope/internal/integrators"
	"github.com/san-kum/polytrope/internal/solver"
	"github.com/san-kum/polytrope/internal/surface"
)

// scriptedStepper returns a fixed result so failure paths can be driven directly.
type scriptedStepper struct {
	next    emden.State
	outside bool
}

func (s scriptedStepper) Step(_, _ emden.Derivative, _ emden.State, _ float64) (emden.State, bool) {
	return s.next, s.outside
}

func config(n, h float64) solver.Config {
	return solver.Config{XInit: 1e-8, N: n, H: h, MaxIter: 1_000_000, Backend: integrators.Fast}
}

var _ = Describe("Integrate", func() {
	Context("with closed-form indices", func() {
		DescribeTable("locates the surface",
			func(n, xi1, thetaPrime float64) {
				traj, err := solver.Integrate(config(n, 1e-4))
				Expect(err).NotTo(HaveOccurred())
				Expect(traj.Crossed).To(BeTrue())

				s, err := surface.FromTrajectory(traj)
				Expect(err).NotTo(HaveOccurred())
				Expect(s.XI1).To(BeNumerically("~", xi1, 1e-3*xi1))
				Expect(s.ThetaPrime).To(BeNumerically("~", thetaPrime, 1e-3*thetaPrime))
			},
			Entry("n=0", 0.0, math.Sqrt(6), math.Sqrt(6)/3),
			Entry("n=1", 1.0, math.Pi, 1/math.Pi),
		)
	})

	It("starts at the central condition and stops one step short of the surface", func() {
		traj, err := solver.Integrate(config(1.5, 1e-3))
		Expect(err).NotTo(HaveOccurred())

		Expect(traj.At(0)).To(Equal(emden.Initial(1e-8)))
		Expect(traj.Last().Y).To(BeNumerically(">", 0))
		Expect(traj.Overshoot.Y).To(BeNumerically("<=", 0))
		Expect(traj.Overshoot.X).To(BeNumerically("~", traj.Last().X+1e-3, 1e-12))
		Expect(traj.Iterations).To(Equal(traj.Len()))
		Expect(traj.Y).To(HaveLen(traj.Len()))
		Expect(traj.Z).To(HaveLen(traj.Len()))
	})

	It("keeps y non-increasing for every valid index", func() {
		for _, n := range []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4} {
			traj, err := solver.Integrate(config(n, 1e-3))
			Expect(err).NotTo(HaveOccurred(), "n=%g", n)
			for i := 1; i < traj.Len(); i++ {
				Expect(traj.Y[i]).To(BeNumerically("<=", traj.Y[i-1]+1e-12), "n=%g at %d", n, i)
				Expect(traj.X[i]).To(BeNumerically(">", traj.X[i-1]))
			}
		}
	})

	It("returns only the initial condition when max_iter is 1", func() {
		cfg := config(2, 1e-3)
		cfg.MaxIter = 1
		traj, err := solver.Integrate(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Len()).To(Equal(1))
		Expect(traj.At(0)).To(Equal(emden.Initial(1e-8)))
		Expect(traj.Exhausted()).To(BeTrue())
	})

	It("reports an exhausted run without failing", func() {
		cfg := config(3, 1e-3)
		cfg.MaxIter = 100
		traj, err := solver.Integrate(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Len()).To(Equal(100))
		Expect(traj.Exhausted()).To(BeTrue())
		Expect(traj.Last().Y).To(BeNumerically(">", 0))

		_, err = surface.FromTrajectory(traj)
		Expect(err).To(MatchError(emden.ErrNoSurface))
	})

	It("is deterministic", func() {
		a, err := solver.Integrate(config(2.5, 1e-3))
		Expect(err).NotTo(HaveOccurred())
		b, err := solver.Integrate(config(2.5, 1e-3))
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal(a))
	})

	It("gives the same surface on every fourth-order backend", func() {
		for _, n := range []float64{0, 1.5, 3} {
			var xi []float64
			for _, b := range []integrators.Backend{integrators.Fast, integrators.Reference} {
				cfg := config(n, 1e-3)
				cfg.Backend = b
				traj, err := solver.Integrate(cfg)
				Expect(err).NotTo(HaveOccurred())
				s, err := surface.FromTrajectory(traj)
				Expect(err).NotTo(HaveOccurred())
				xi = append(xi, s.XI1)
			}
			Expect(xi[0]).To(BeNumerically("~", xi[1], 1e-10))
		}
	})

	It("converges as the step shrinks", func() {
		relErr := func(h float64) float64 {
			traj, err := solver.Integrate(config(0, h))
			Expect(err).NotTo(HaveOccurred())
			s, err := surface.FromTrajectory(traj)
			Expect(err).NotTo(HaveOccurred())
			return math.Abs(s.XI1-math.Sqrt(6)) / math.Sqrt(6)
		}
		coarse, fine := relErr(1e-2), relErr(1e-3)
		Expect(fine).To(BeNumerically("<", coarse/20))
	})

	It("notifies observers of every recorded state", func() {
		cfg := config(1, 1e-2)
		var seen []int
		s := solver.New(integrators.NewRK4())
		s.AddObserver(solver.ObserverFunc(func(i int, _ emden.State) { seen = append(seen, i) }))

		traj, err := s.Run(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(HaveLen(traj.Len()))
		Expect(seen[len(seen)-1]).To(Equal(traj.Len() - 1))
	})

	Context("with a misbehaving stepper", func() {
		It("fails on a domain excursion away from the surface", func() {
			s := solver.New(scriptedStepper{next: emden.State{X: 1, Y: 0.5, Z: -0.1}, outside: true})
			_, err := s.Run(config(1.5, 1e-3))
			Expect(err).To(MatchError(emden.ErrNumericDomain))

			var stepErr *emden.StepError
			Expect(err).To(BeAssignableToTypeOf(stepErr))
		})

		It("accepts a domain excursion in the crossing step", func() {
			s := solver.New(scriptedStepper{next: emden.State{X: 1, Y: -0.01, Z: -0.1}, outside: true})
			traj, err := s.Run(config(1.5, 1e-3))
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Crossed).To(BeTrue())
			Expect(traj.Len()).To(Equal(1))
		})

		It("fails on non-finite states", func() {
			s := solver.New(scriptedStepper{next: emden.State{X: 1, Y: math.NaN()}})
			_, err := s.Run(config(1, 1e-3))
			Expect(err).To(MatchError(emden.ErrInvalidState))
		})
	})
})

var _ = Describe("Config", func() {
	It("accepts the defaults", func() {
		Expect(solver.DefaultConfig().Validate()).To(Succeed())
	})

	DescribeTable("rejects invalid parameters",
		func(mutate func(*solver.Config)) {
			cfg := solver.DefaultConfig()
			mutate(&cfg)
			Expect(cfg.Validate()).To(MatchError(emden.ErrParameterBounds))
			_, err := solver.Integrate(cfg)
			Expect(err).To(MatchError(emden.ErrParameterBounds))
		},
		Entry("zero x_init", func(c *solver.Config) { c.XInit = 0 }),
		Entry("negative h", func(c *solver.Config) { c.H = -1e-3 }),
		Entry("zero max_iter", func(c *solver.Config) { c.MaxIter = 0 }),
		Entry("negative n", func(c *solver.Config) { c.N = -0.5 }),
		Entry("n at 5", func(c *solver.Config) { c.N = 5 }),
		Entry("NaN h", func(c *solver.Config) { c.H = math.NaN() }),
	)
})
