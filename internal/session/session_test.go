package session

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/physics"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestSession() *Session {
	opts := DefaultOptions()
	opts.Pivot = physics.Point{X: 400, Y: 300}
	s, err := New(opts)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func run(s *Session, steps int, dt float64) time.Time {
	now := epoch
	for i := 0; i < steps; i++ {
		now = now.Add(time.Duration(dt * float64(time.Second)))
		Expect(s.Advance(dt, now)).To(Succeed())
	}
	return now
}

var _ = Describe("Session", func() {
	var s *Session

	BeforeEach(func() {
		s = newTestSession()
	})

	Describe("New", func() {
		It("starts at the initial condition with empty buffers", func() {
			Expect(s.State()).To(Equal(physics.InitialState()))
			Expect(s.Running()).To(BeTrue())
			Expect(s.EnergyLen()).To(BeZero())
			l1, l2 := s.TrailLens()
			Expect(l1).To(BeZero())
			Expect(l2).To(BeZero())
		})

		It("rejects invalid parameters", func() {
			opts := DefaultOptions()
			opts.Params.Length1 = 0
			_, err := New(opts)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})
	})

	Describe("Advance", func() {
		It("updates state, trails and energy together", func() {
			Expect(s.Advance(1.0/60, epoch)).To(Succeed())

			want, err := physics.Step(physics.InitialState(), s.Params(), 1.0/60)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.State()).To(Equal(want))

			l1, l2 := s.TrailLens()
			Expect(l1).To(Equal(1))
			Expect(l2).To(Equal(1))
			Expect(s.EnergyLen()).To(Equal(1))

			snap := s.Snapshot(epoch)
			Expect(snap.Trail2[0].X).To(BeNumerically("~", snap.Joints.X2, 1e-9))
			Expect(snap.Energy[0]).To(BeNumerically("~", physics.Energy(want, s.Params()), 1e-12))
		})

		It("clamps large frame gaps to MaxDt", func() {
			Expect(s.Advance(2.5, epoch)).To(Succeed())

			want, _ := physics.Step(physics.InitialState(), s.Params(), MaxDt)
			Expect(s.State()).To(Equal(want))
			Expect(s.Elapsed()).To(BeNumerically("~", MaxDt, 1e-15))
		})

		It("treats negative dt as zero", func() {
			Expect(s.Advance(-1, epoch)).To(Succeed())
			Expect(s.State()).To(Equal(physics.InitialState()))
		})

		It("does nothing while paused", func() {
			s.Pause()
			Expect(s.Advance(1.0/60, epoch)).To(Succeed())
			Expect(s.State()).To(Equal(physics.InitialState()))
			Expect(s.EnergyLen()).To(BeZero())
		})

		It("keeps only the most recent 200 energy samples", func() {
			run(s, 250, 1.0/120)
			Expect(s.EnergyLen()).To(Equal(200))
		})

		It("evicts trail points older than three seconds", func() {
			now := run(s, 600, 1.0/100)
			snap := s.Snapshot(now)
			Expect(len(snap.Trail1)).To(BeNumerically("<=", 300))
			Expect(len(snap.Trail1)).To(BeNumerically(">=", 299))
		})
	})

	Describe("computation faults", func() {
		It("halts on a non-finite state and records nothing", func() {
			s.state.Angle1 = math.NaN()

			err := s.Advance(1.0/60, epoch)
			Expect(err).To(MatchError(dynamo.ErrInvalidState))
			Expect(s.Running()).To(BeFalse())
			Expect(s.Err()).To(HaveOccurred())
			Expect(s.EnergyLen()).To(BeZero())

			Expect(s.Advance(1.0/60, epoch)).To(MatchError(dynamo.ErrInvalidState))
			Expect(s.Play()).To(MatchError(ErrHalted))
		})

		It("halts on force-injected invalid parameters", func() {
			s.params.Mass2 = 0
			Expect(s.Advance(1.0/60, epoch)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(s.Snapshot(epoch).Err).To(HaveOccurred())
		})

		It("recovers on Reset", func() {
			s.state.Velocity1 = math.Inf(1)
			Expect(s.Advance(1.0/60, epoch)).NotTo(Succeed())

			s.Reset()
			Expect(s.Err()).NotTo(HaveOccurred())
			Expect(s.Play()).To(Succeed())
			Expect(s.Advance(1.0/60, epoch)).To(Succeed())
		})
	})

	Describe("Reset", func() {
		It("is idempotent regardless of prior state", func() {
			run(s, 50, 1.0/60)
			Expect(s.Randomize(fixedSource{0.9})).To(Succeed())

			for i := 0; i < 2; i++ {
				s.Reset()
				Expect(s.State()).To(Equal(physics.State{Angle1: math.Pi / 2, Angle2: math.Pi / 2}))
				Expect(s.EnergyLen()).To(BeZero())
				l1, l2 := s.TrailLens()
				Expect(l1 + l2).To(BeZero())
				Expect(s.Steps()).To(BeZero())
			}
		})

		It("returns to the rest-at-horizontal state even from a custom start", func() {
			opts := DefaultOptions()
			opts.Initial = physics.State{Angle1: 3, Angle2: 3, Velocity1: 1}
			custom, err := New(opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(custom.State()).To(Equal(opts.Initial))

			run(custom, 10, 1.0/60)
			custom.Reset()
			Expect(custom.State()).To(Equal(physics.InitialState()))
		})

		It("ends an in-progress drag and restores playback", func() {
			Expect(s.PointerDown(physics.Point{X: 550, Y: 300})).To(BeTrue())
			s.Reset()
			Expect(s.Dragging()).To(Equal(TargetNone))
			Expect(s.Running()).To(BeTrue())
		})
	})

	Describe("controls", func() {
		It("rejects out-of-range values and keeps the configuration", func() {
			before := s.Params()
			Expect(s.SetLength1(40)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(s.SetMass2(0)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(s.SetGravity(25)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(s.SetDampingCoefficient(0)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(s.SetParam("spring", 1)).To(MatchError(dynamo.ErrUnknownParameter))
			Expect(s.Params()).To(Equal(before))
		})

		It("applies values inside the documented ranges", func() {
			Expect(s.SetLength1(200)).To(Succeed())
			Expect(s.SetLength2(50)).To(Succeed())
			Expect(s.SetMass1(1)).To(Succeed())
			Expect(s.SetMass2(50)).To(Succeed())
			Expect(s.SetGravity(1.6)).To(Succeed())
			Expect(s.SetDampingCoefficient(0.25)).To(Succeed())
			s.SetDampingEnabled(true)

			p := s.Params()
			Expect(p).To(Equal(physics.Params{
				Length1: 200, Length2: 50, Mass1: 1, Mass2: 50, Gravity: 1.6,
				DampingEnabled: true, DampingCoefficient: 0.25,
			}))
		})

		It("nudges parameters by their step", func() {
			Expect(s.NudgeParam(physics.ParamLength2, 2)).To(Succeed())
			Expect(s.Params().Length2).To(BeNumerically("~", 170, 1e-9))
			Expect(s.NudgeParam(physics.ParamMass1, 100)).To(Succeed())
			Expect(s.Params().Mass1).To(BeNumerically("~", 50, 1e-9))
		})

		It("toggles display flags without touching the physics", func() {
			before := s.Params()
			s.SetShowTrails(false)
			s.SetShowEnergy(false)
			Expect(s.ShowTrails()).To(BeFalse())
			Expect(s.ShowEnergy()).To(BeFalse())
			Expect(s.Params()).To(Equal(before))
		})

		It("toggles play and pause", func() {
			running, err := s.Toggle()
			Expect(err).NotTo(HaveOccurred())
			Expect(running).To(BeFalse())
			running, _ = s.Toggle()
			Expect(running).To(BeTrue())
		})
	})

	Describe("conservation diagnostic", func() {
		It("stays near 100 percent without damping", func() {
			s.state = physics.State{Angle1: 0.5, Angle2: 0.3}
			run(s, 600, 1.0/120)

			percent, ok := s.Conservation()
			Expect(ok).To(BeTrue())
			Expect(percent).To(BeNumerically(">", 98))
			Expect(percent).To(BeNumerically("<=", 100))
		})

		It("is unavailable while damping is enabled", func() {
			s.SetDampingEnabled(true)
			run(s, 10, 1.0/60)
			_, ok := s.Conservation()
			Expect(ok).To(BeFalse())
		})

		It("restarts its baseline when parameters change", func() {
			run(s, 10, 1.0/60)
			Expect(s.SetGravity(3)).To(Succeed())
			_, ok := s.Conservation()
			Expect(ok).To(BeFalse())
		})
	})
})
