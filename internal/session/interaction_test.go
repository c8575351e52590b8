package session

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendulab/internal/physics"
)

type fixedSource struct{ v float64 }

func (f fixedSource) Float64() float64 { return f.v }

type seqSource struct {
	vals []float64
	i    int
}

func (q *seqSource) Float64() float64 {
	v := q.vals[q.i%len(q.vals)]
	q.i++
	return v
}

var _ = Describe("Interaction", func() {
	var (
		s     *Session
		pivot physics.Point
	)

	BeforeEach(func() {
		s = newTestSession()
		pivot = s.Pivot()
		run(s, 30, 1.0/60)
	})

	joints := func() physics.Joints {
		return physics.Positions(s.State(), s.Params(), pivot)
	}

	Describe("PointerDown", func() {
		It("starts dragging mass2, pauses and clears history", func() {
			Expect(s.PointerDown(joints().Mass2())).To(BeTrue())
			Expect(s.Dragging()).To(Equal(TargetMass2))
			Expect(s.Running()).To(BeFalse())
			l1, l2 := s.TrailLens()
			Expect(l1 + l2).To(BeZero())
			Expect(s.EnergyLen()).To(BeZero())
		})

		It("picks mass1 within max(8, mass)+8 pixels", func() {
			m1 := joints().Mass1()
			Expect(s.PointerDown(physics.Point{X: m1.X + 17.5, Y: m1.Y})).To(BeTrue())
			Expect(s.Dragging()).To(Equal(TargetMass1))
		})

		It("ignores presses outside every hit radius", func() {
			before := s.State()
			m1 := joints().Mass1()
			Expect(s.PointerDown(physics.Point{X: m1.X + 40, Y: m1.Y + 40})).To(BeFalse())
			Expect(s.Dragging()).To(Equal(TargetNone))
			Expect(s.Running()).To(BeTrue())
			Expect(s.State()).To(Equal(before))
			Expect(s.EnergyLen()).To(Equal(30))
		})

		Context("when both masses are in range", func() {
			BeforeEach(func() {
				s.Reset()
				s.params.Length2 = 20
				s.state = physics.State{Angle1: 0, Angle2: math.Pi}
			})

			It("prefers mass2 on an exact tie", func() {
				j := joints()
				mid := physics.Point{X: (j.X1 + j.X2) / 2, Y: (j.Y1 + j.Y2) / 2}
				Expect(s.PointerDown(mid)).To(BeTrue())
				Expect(s.Dragging()).To(Equal(TargetMass2))
			})

			It("prefers the closer mass", func() {
				j := joints()
				Expect(s.PointerDown(physics.Point{X: j.X1, Y: j.Y1 - 4})).To(BeTrue())
				Expect(s.Dragging()).To(Equal(TargetMass1))
			})
		})
	})

	Describe("PointerMove", func() {
		It("maps a pointer straight below the pivot to angle1 = 0", func() {
			Expect(s.PointerDown(joints().Mass1())).To(BeTrue())
			Expect(s.PointerMove(physics.Point{X: pivot.X, Y: pivot.Y + 90})).To(BeTrue())

			st := s.State()
			Expect(st.Angle1).To(BeNumerically("~", 0, 1e-12))
			Expect(st.Velocity1).To(BeZero())
			Expect(st.Velocity2).To(BeZero())
		})

		It("maps a pointer to the right of the pivot to angle1 = pi/2", func() {
			Expect(s.PointerDown(joints().Mass1())).To(BeTrue())
			s.PointerMove(physics.Point{X: pivot.X + 60, Y: pivot.Y})
			Expect(s.State().Angle1).To(BeNumerically("~", math.Pi/2, 1e-12))
		})

		It("aims mass2 from the live position of mass1", func() {
			s.Reset()
			Expect(s.PointerDown(joints().Mass2())).To(BeTrue())

			s.state.Angle1 = 0
			m1 := joints().Mass1()
			s.PointerMove(physics.Point{X: m1.X - 30, Y: m1.Y})

			Expect(s.State().Angle2).To(BeNumerically("~", -math.Pi/2, 1e-12))
			Expect(s.State().Angle1).To(BeZero())
		})

		It("clears both trails on every move", func() {
			Expect(s.PointerDown(joints().Mass1())).To(BeTrue())
			s.trail1.Push(1, 1, epoch)
			s.trail2.Push(2, 2, epoch)
			s.PointerMove(physics.Point{X: pivot.X + 10, Y: pivot.Y + 10})
			l1, l2 := s.TrailLens()
			Expect(l1 + l2).To(BeZero())
		})

		It("is ignored while idle", func() {
			before := s.State()
			Expect(s.PointerMove(physics.Point{X: 0, Y: 0})).To(BeFalse())
			Expect(s.State()).To(Equal(before))
		})

		It("blocks integration while dragging", func() {
			Expect(s.PointerDown(joints().Mass1())).To(BeTrue())
			before := s.State()
			Expect(s.Advance(1.0/60, epoch)).To(Succeed())
			Expect(s.State()).To(Equal(before))
		})
	})

	Describe("PointerUp and PointerLeave", func() {
		It("resumes playback when it was running", func() {
			Expect(s.PointerDown(joints().Mass1())).To(BeTrue())
			s.PointerUp()
			Expect(s.Dragging()).To(Equal(TargetNone))
			Expect(s.Running()).To(BeTrue())
		})

		It("stays paused when it was paused", func() {
			s.Pause()
			Expect(s.PointerDown(joints().Mass2())).To(BeTrue())
			s.PointerLeave()
			Expect(s.Dragging()).To(Equal(TargetNone))
			Expect(s.Running()).To(BeFalse())
		})

		It("honours play requested mid-drag", func() {
			s.Pause()
			Expect(s.PointerDown(joints().Mass2())).To(BeTrue())
			Expect(s.Play()).To(Succeed())
			Expect(s.Running()).To(BeFalse())
			s.PointerUp()
			Expect(s.Running()).To(BeTrue())
		})
	})

	Describe("Randomize", func() {
		It("perturbs only the angles within 0.05 rad", func() {
			before := s.State()
			l1, l2 := s.TrailLens()

			Expect(s.Randomize(&seqSource{vals: []float64{0, 0.75}})).To(Succeed())

			after := s.State()
			Expect(after.Angle1 - before.Angle1).To(BeNumerically("~", -0.05, 1e-12))
			Expect(after.Angle2 - before.Angle2).To(BeNumerically("~", 0.025, 1e-12))
			Expect(after.Velocity1).To(Equal(before.Velocity1))
			Expect(after.Velocity2).To(Equal(before.Velocity2))

			n1, n2 := s.TrailLens()
			Expect(n1).To(Equal(l1))
			Expect(n2).To(Equal(l2))
			Expect(s.EnergyLen()).To(Equal(30))
		})

		It("works while paused", func() {
			s.Pause()
			Expect(s.Randomize(fixedSource{0.5})).To(Succeed())
		})

		It("is refused while dragging", func() {
			Expect(s.PointerDown(joints().Mass1())).To(BeTrue())
			Expect(s.Randomize(fixedSource{0.5})).To(MatchError(ErrBusy))
		})
	})
})
