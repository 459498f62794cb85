package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/projsim/internal/dynamo"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultModel    = "inert"
	DefaultMode     = "corrected"
	DefaultMass     = 1.0
)

type Config struct {
	Model     string          `yaml:"model"`
	Mode      string          `yaml:"mode"`
	Dt        float64         `yaml:"dt"`
	Duration  float64         `yaml:"duration"`
	Gravity   float64         `yaml:"gravity"`
	InitState InitStateConfig `yaml:"init_state"`
	Drag      DragConfig      `yaml:"drag"`
	Thrust    ThrustConfig    `yaml:"thrust"`
}

// InitStateConfig mirrors dynamo.State. A non-zero LaunchSpeed overrides
// vx/vy with a launch at LaunchAngle degrees above the horizon.
type InitStateConfig struct {
	T           float64 `yaml:"t"`
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	VX          float64 `yaml:"vx"`
	VY          float64 `yaml:"vy"`
	LaunchSpeed float64 `yaml:"launch_speed"`
	LaunchAngle float64 `yaml:"launch_angle"`
	Mass        float64 `yaml:"mass"`
	FuelMass    float64 `yaml:"fuel_mass"`
	Thrust      float64 `yaml:"thrust"`
	Drag        float64 `yaml:"drag"`
	Lift        float64 `yaml:"lift"`
	FX          float64 `yaml:"fx"`
	FY          float64 `yaml:"fy"`
	AX          float64 `yaml:"ax"`
	AY          float64 `yaml:"ay"`
	Alpha       float64 `yaml:"alpha"`
	Gamma       float64 `yaml:"gamma"`
	CL          float64 `yaml:"cl"`
	CD          float64 `yaml:"cd"`
	Stage       float64 `yaml:"stage"`
	Grounded    bool    `yaml:"grounded"`
}

type DragConfig struct {
	Cd        float64 `yaml:"cd"`
	Cl        float64 `yaml:"cl"`
	Area      float64 `yaml:"area"`
	MachCurve bool    `yaml:"mach_curve"`
}

type ThrustConfig struct {
	LaunchAngle float64       `yaml:"launch_angle"`
	Stages      []StageConfig `yaml:"stages"`
}

type StageConfig struct {
	Thrust   float64 `yaml:"thrust"`
	BurnTime float64 `yaml:"burn_time"`
	BurnRate float64 `yaml:"burn_rate"`
	Jettison float64 `yaml:"jettison"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:    DefaultModel,
		Mode:     DefaultMode,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Gravity:  dynamo.StandardGravity,
		InitState: InitStateConfig{
			Mass: DefaultMass,
		},
		Drag: DragConfig{
			Cd:   0.47,
			Area: 0.01,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrInvalidParameter, c.Dt)
	}
	if !(c.Duration >= 0) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("%w: duration must be non-negative, got %g", dynamo.ErrInvalidParameter, c.Duration)
	}
	if _, err := dynamo.ParseMode(c.Mode); err != nil {
		return err
	}
	for i, st := range c.Thrust.Stages {
		if st.BurnTime < 0 || st.BurnRate < 0 {
			return fmt.Errorf("%w: stage %d has negative burn time or rate", dynamo.ErrInvalidParameter, i)
		}
	}
	return nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Thrust.Stages = append([]StageConfig(nil), c.Thrust.Stages...)
	return &out
}

func (c *Config) InitialState() dynamo.State {
	in := c.InitState
	s := dynamo.State{
		T: in.T, X: in.X, Y: in.Y,
		Vx: in.VX, Vy: in.VY,
		Mass: in.Mass, FuelMass: in.FuelMass,
		Thrust: in.Thrust, Drag: in.Drag, Lift: in.Lift,
		Fx: in.FX, Fy: in.FY, Ax: in.AX, Ay: in.AY,
		Alpha: in.Alpha, Gamma: in.Gamma, Cl: in.CL, Cd: in.CD,
		Stage: in.Stage,
	}
	if in.LaunchSpeed != 0 {
		rad := in.LaunchAngle * math.Pi / 180
		s.Vx = in.LaunchSpeed * math.Cos(rad)
		s.Vy = in.LaunchSpeed * math.Sin(rad)
		s.Speed = in.LaunchSpeed
	}
	if in.Grounded {
		s.Contact = dynamo.Grounded
	}
	return s
}

func (c *Config) SimConfig() (dynamo.Config, error) {
	mode, err := dynamo.ParseMode(c.Mode)
	if err != nil {
		return dynamo.Config{}, err
	}
	cfg := dynamo.DefaultConfig()
	cfg.Dt = c.Dt
	cfg.Duration = c.Duration
	cfg.Gravity = c.Gravity
	cfg.Mode = mode
	return cfg, nil
}

// SetParam sets a scenario parameter by name, as used by parameter sweeps.
func (c *Config) SetParam(name string, value float64) error {
	switch name {
	case "launch_angle":
		c.InitState.LaunchAngle = value
		c.Thrust.LaunchAngle = value
	case "launch_speed":
		c.InitState.LaunchSpeed = value
	case "mass":
		c.InitState.Mass = value
	case "y":
		c.InitState.Y = value
	case "cd":
		c.Drag.Cd = value
	case "area":
		c.Drag.Area = value
	case "dt":
		c.Dt = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
