package physics

import "math"

const (
	SeaLevelDensity       = 1.225  // kg/m^3
	DensityScaleHeight    = 8500.0 // m
	SeaLevelTemperature   = 288.15 // K
	TemperatureLapseRate  = 0.0065 // K/m
	TropopauseTemperature = 216.65 // K

	heatCapacityRatio = 1.4
	specificGasAir    = 287.05 // J/(kg K)
)

// Atmosphere is an exponential-density atmosphere with a linear temperature
// lapse up to the tropopause.
type Atmosphere struct {
	Density0    float64
	ScaleHeight float64
	Temp0       float64
	LapseRate   float64
}

func StandardAtmosphere() Atmosphere {
	return Atmosphere{
		Density0:    SeaLevelDensity,
		ScaleHeight: DensityScaleHeight,
		Temp0:       SeaLevelTemperature,
		LapseRate:   TemperatureLapseRate,
	}
}

func (a Atmosphere) Density(altitude float64) float64 {
	if altitude < 0 {
		altitude = 0
	}
	return a.Density0 * math.Exp(-altitude/a.ScaleHeight)
}

func (a Atmosphere) Temperature(altitude float64) float64 {
	if altitude < 0 {
		altitude = 0
	}
	return math.Max(a.Temp0-a.LapseRate*altitude, TropopauseTemperature)
}

func (a Atmosphere) SpeedOfSound(altitude float64) float64 {
	return math.Sqrt(heatCapacityRatio * specificGasAir * a.Temperature(altitude))
}

// Mach returns speed as a fraction of the local speed of sound.
func (a Atmosphere) Mach(speed, altitude float64) float64 {
	return speed / a.SpeedOfSound(altitude)
}
