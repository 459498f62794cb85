package physics_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/projsim/internal/dynamo"
	"github.com/san-kum/projsim/internal/physics"
)

func touchdown(result *dynamo.Result) (dynamo.Event, bool) {
	for _, ev := range result.Events {
		if ev.Kind == dynamo.EventTouchdown {
			return ev, true
		}
	}
	return dynamo.Event{}, false
}

var _ = Describe("Atmosphere", func() {
	atm := physics.StandardAtmosphere()

	It("has sea-level density at the ground", func() {
		Expect(atm.Density(0)).To(Equal(physics.SeaLevelDensity))
		Expect(atm.Density(-50)).To(Equal(physics.SeaLevelDensity))
	})

	It("decays by 1/e per scale height", func() {
		Expect(atm.Density(physics.DensityScaleHeight)).To(BeNumerically("~", physics.SeaLevelDensity/math.E, 1e-12))
	})

	It("floors the temperature at the tropopause", func() {
		Expect(atm.Temperature(0)).To(Equal(physics.SeaLevelTemperature))
		Expect(atm.Temperature(20000)).To(Equal(physics.TropopauseTemperature))
	})

	It("gives the sea-level speed of sound", func() {
		Expect(atm.SpeedOfSound(0)).To(BeNumerically("~", 340.29, 0.01))
		Expect(atm.Mach(340.29, 0)).To(BeNumerically("~", 1.0, 1e-4))
	})
})

var _ = Describe("Drag", func() {
	var drag *physics.Drag

	BeforeEach(func() {
		drag = physics.NewDrag()
	})

	It("exerts nothing at rest", func() {
		f := drag.Evaluate(dynamo.NewState(), 0.01)
		Expect(f.Fx).To(BeZero())
		Expect(f.Fy).To(BeZero())
		Expect(f.Drag).To(BeZero())
	})

	It("opposes horizontal motion", func() {
		s := dynamo.State{Vx: 100}
		f := drag.Evaluate(s, 0.01)

		want := 0.5 * physics.SeaLevelDensity * 100 * 100 * physics.DefaultDragCoeff * physics.DefaultArea
		Expect(f.Drag).To(BeNumerically("~", want, 1e-9))
		Expect(f.Fx).To(BeNumerically("~", -want, 1e-9))
		Expect(f.Fy).To(BeNumerically("~", 0, 1e-12))
		Expect(f.Gamma).To(BeZero())
		Expect(f.Mach).To(BeNumerically("~", 100/340.29, 1e-4))
	})

	It("lifts perpendicular to the velocity", func() {
		drag.Cd = 0
		Expect(drag.SetParam("cl", 0.5)).To(Succeed())

		f := drag.Evaluate(dynamo.State{Vx: 50}, 0.01)
		Expect(f.Lift).To(BeNumerically(">", 0))
		Expect(f.Fy).To(BeNumerically("~", f.Lift, 1e-12))
		Expect(f.Fx).To(BeNumerically("~", 0, 1e-12))
	})

	It("raises Cd through the transonic region", func() {
		Expect(physics.MachDragFactor(0.5)).To(Equal(1.0))
		Expect(physics.MachDragFactor(1.2)).To(BeNumerically("~", 2.0, 1e-12))
		Expect(physics.MachDragFactor(1.2 - 1e-9)).To(BeNumerically("~", 2.0, 1e-6))
		Expect(physics.MachDragFactor(3)).To(BeNumerically("<", 2.0))

		drag.MachCurve = true
		f := drag.Evaluate(dynamo.State{Vx: 680}, 0.01)
		Expect(f.Cd).To(BeNumerically(">", physics.DefaultDragCoeff))
	})

	It("rejects unknown params", func() {
		Expect(drag.SetParam("span", 1)).NotTo(Succeed())
	})

	It("shortens the range of a ballistic shot", func() {
		initial := dynamo.State{Vx: 100, Vy: 100, Mass: 1}
		cfg := dynamo.DefaultConfig()
		cfg.Dt = 0.005
		cfg.Duration = 40

		vacuum, err := dynamo.New(physics.NewInert()).Run(context.Background(), initial, cfg)
		Expect(err).NotTo(HaveOccurred())
		withDrag, err := dynamo.New(drag).Run(context.Background(), initial, cfg)
		Expect(err).NotTo(HaveOccurred())

		v, ok := touchdown(vacuum)
		Expect(ok).To(BeTrue())
		d, ok := touchdown(withDrag)
		Expect(ok).To(BeTrue())
		Expect(d.X).To(BeNumerically("<", v.X))
	})
})

var _ = Describe("StagedThrust", func() {
	var thrust *physics.StagedThrust

	BeforeEach(func() {
		thrust = physics.NewStagedThrust(math.Pi/2,
			physics.Stage{Thrust: 300, BurnTime: 2, BurnRate: 1, Jettison: 0.5},
			physics.Stage{Thrust: 100, BurnTime: 3, BurnRate: 0.2},
		)
	})

	It("selects stages by burn window", func() {
		idx, end := thrust.Active(0)
		Expect(idx).To(Equal(0))
		Expect(end).To(Equal(2.0))

		idx, end = thrust.Active(2.5)
		Expect(idx).To(Equal(1))
		Expect(end).To(Equal(5.0))

		idx, _ = thrust.Active(6)
		Expect(idx).To(Equal(2))
		Expect(thrust.TotalBurnTime()).To(Equal(5.0))
	})

	It("fires along the launch angle at rest", func() {
		f := thrust.Evaluate(dynamo.NewState(), 0.1)
		Expect(f.Thrust).To(Equal(300.0))
		Expect(f.Fy).To(BeNumerically("~", 300, 1e-9))
		Expect(f.Fx).To(BeNumerically("~", 0, 1e-9))
		Expect(f.FuelMass).To(BeNumerically("~", 0.1, 1e-12))
		Expect(f.Stage).To(BeZero())
	})

	It("fires along the velocity in flight", func() {
		f := thrust.Evaluate(dynamo.State{T: 3, Vx: 10}, 0.1)
		Expect(f.Fx).To(BeNumerically("~", 100, 1e-9))
		Expect(f.Stage).To(Equal(1.0))
	})

	It("jettisons dry mass at burnout", func() {
		f := thrust.Evaluate(dynamo.State{T: 1.95}, 0.1)
		Expect(f.FuelMass).To(BeNumerically("~", 0.05+0.5, 1e-9))
	})

	It("goes quiet after the last stage", func() {
		f := thrust.Evaluate(dynamo.State{T: 10, Vy: -5}, 0.1)
		Expect(f.Thrust).To(BeZero())
		Expect(f.FuelMass).To(BeZero())
		Expect(f.Stage).To(Equal(2.0))
	})

	It("tunes stages by name", func() {
		Expect(thrust.SetParam("stage1_thrust", 250)).To(Succeed())
		Expect(thrust.Stages[1].Thrust).To(Equal(250.0))
		Expect(thrust.SetParam("launch_angle", 1)).To(Succeed())
		Expect(thrust.LaunchAngle).To(Equal(1.0))
		Expect(thrust.SetParam("stage7_thrust", 1)).NotTo(Succeed())
	})
})

var _ = Describe("Composite", func() {
	It("sums forces and keeps the reported scalars", func() {
		rocket := physics.NewComposite(
			physics.NewDrag(),
			physics.NewStagedThrust(0, physics.Stage{Thrust: 50, BurnTime: 1, BurnRate: 1}),
		)
		s := dynamo.State{Vx: 20}
		f := rocket.Evaluate(s, 0.1)

		d := physics.NewDrag().Evaluate(s, 0.1)
		Expect(f.Fx).To(BeNumerically("~", 50+d.Fx, 1e-9))
		Expect(f.Thrust).To(Equal(50.0))
		Expect(f.Drag).To(Equal(d.Drag))
		Expect(f.Mach).To(Equal(d.Mach))
		Expect(f.FuelMass).To(BeNumerically("~", 0.1, 1e-12))
	})

	It("routes params to the owning model", func() {
		drag := physics.NewDrag()
		thrust := physics.NewStagedThrust(0)
		rocket := physics.NewComposite(drag, thrust)

		Expect(rocket.SetParam("cd", 0.3)).To(Succeed())
		Expect(drag.Cd).To(Equal(0.3))
		Expect(rocket.SetParam("launch_angle", 0.7)).To(Succeed())
		Expect(thrust.LaunchAngle).To(Equal(0.7))
		Expect(rocket.SetParam("nope", 1)).NotTo(Succeed())
		Expect(rocket.GetParams()).To(HaveKey("area"))
	})
})

var _ = Describe("Sounding rocket flight", func() {
	It("lifts off, burns its fuel and lands", func() {
		rocket := physics.NewComposite(
			physics.NewDrag(),
			physics.NewStagedThrust(math.Pi/2, physics.Stage{Thrust: 300, BurnTime: 5, BurnRate: 0.5}),
		)
		initial := dynamo.State{Mass: 10, Contact: dynamo.Grounded}
		cfg := dynamo.DefaultConfig()
		cfg.Duration = 60

		result, err := dynamo.New(rocket).Run(context.Background(), initial, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Events).NotTo(BeEmpty())
		Expect(result.Events[0].Kind).To(Equal(dynamo.EventLiftoff))

		_, landed := touchdown(result)
		Expect(landed).To(BeTrue())

		last := result.States[len(result.States)-1]
		Expect(last.Mass).To(BeNumerically("~", 7.5, 1e-6))
		Expect(last.Stage).To(Equal(1.0))
		Expect(last.Contact).To(Equal(dynamo.Grounded))
		for _, s := range result.States {
			Expect(s.Y).To(BeNumerically(">=", 0))
		}
	})
})
