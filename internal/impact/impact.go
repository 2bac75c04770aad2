// Package impact computes the time, CO₂ and calorie footprint of a journey and
// compares it with driving the same distance.
package impact

import (
	"math"

	"greenCommuteAPI/internal/apperr"
)

type Mode string

const (
	ModeWalk     Mode = "walk"
	ModeCycle    Mode = "cycle"
	ModeEScooter Mode = "e-scooter"
	ModeBus      Mode = "bus"
	ModeTrain    Mode = "train"
	ModeDrive    Mode = "drive"
	ModeBoat     Mode = "boat"
	ModePlane    Mode = "plane"
)

// MaxDistanceKm is the longest single journey that can be logged.
const MaxDistanceKm = 500.0

type ModeConfig struct {
	SpeedKmh      float64 `json:"speed_kmh"`
	OverheadMin   float64 `json:"overhead_min"`
	CO2GPerKm     float64 `json:"co2_g_per_km"`
	CaloriesPerKm float64 `json:"calories_per_km"`
}

var modeConfig = map[Mode]ModeConfig{
	ModeWalk:     {SpeedKmh: 5, OverheadMin: 0, CO2GPerKm: 0, CaloriesPerKm: 50},
	ModeCycle:    {SpeedKmh: 15, OverheadMin: 0, CO2GPerKm: 0, CaloriesPerKm: 30},
	ModeEScooter: {SpeedKmh: 18, OverheadMin: 0, CO2GPerKm: 20, CaloriesPerKm: 10},
	ModeBus:      {SpeedKmh: 20, OverheadMin: 5, CO2GPerKm: 80, CaloriesPerKm: 0},
	ModeTrain:    {SpeedKmh: 35, OverheadMin: 8, CO2GPerKm: 40, CaloriesPerKm: 0},
	ModeDrive:    {SpeedKmh: 30, OverheadMin: 3, CO2GPerKm: 170, CaloriesPerKm: 0},
	ModeBoat:     {SpeedKmh: 25, OverheadMin: 15, CO2GPerKm: 120, CaloriesPerKm: 0},
	ModePlane:    {SpeedKmh: 800, OverheadMin: 90, CO2GPerKm: 255, CaloriesPerKm: 0},
}

// Modes lists every supported mode in display order.
var Modes = []Mode{ModeWalk, ModeCycle, ModeEScooter, ModeBus, ModeTrain, ModeDrive, ModeBoat, ModePlane}

func (m Mode) Valid() bool {
	_, ok := modeConfig[m]
	return ok
}

// Sustainable reports whether a journey in this mode counts towards streaks
// and battle scores.
func (m Mode) Sustainable() bool {
	return m != ModeDrive
}

func Config(m Mode) (ModeConfig, bool) {
	cfg, ok := modeConfig[m]
	return cfg, ok
}

type Calculation struct {
	TimeMin                  float64 `json:"time_min"`
	CO2G                     float64 `json:"co2_g"`
	CaloriesKcal             float64 `json:"calories_kcal"`
	DriveTimeMin             float64 `json:"drive_time_min"`
	DriveCO2G                float64 `json:"drive_co2_g"`
	VsDriveCO2SavedG         float64 `json:"vs_drive_co2_saved_g"`
	VsDriveTimeDeltaMin      float64 `json:"vs_drive_time_delta_min"`
	VsDriveCaloriesDeltaKcal float64 `json:"vs_drive_calories_delta_kcal"`
}

// Calculate rejects distances outside (0, 500] km and unknown modes; for
// everything else it is a pure function of its inputs.
func Calculate(distanceKm float64, mode Mode) (Calculation, error) {
	if math.IsNaN(distanceKm) || distanceKm <= 0 || distanceKm > MaxDistanceKm {
		return Calculation{}, apperr.Validation("distance_km must be between 0 and 500")
	}
	chosen, ok := modeConfig[mode]
	if !ok {
		return Calculation{}, apperr.Validation("unknown transport mode %q", mode)
	}
	driving := modeConfig[ModeDrive]

	timeMin := round2(float64(distanceKm/chosen.SpeedKmh*60) + chosen.OverheadMin)
	co2 := round2(distanceKm * chosen.CO2GPerKm)
	calories := round2(distanceKm * chosen.CaloriesPerKm)

	driveTime := round2(float64(distanceKm/driving.SpeedKmh*60) + driving.OverheadMin)
	driveCO2 := round2(distanceKm * driving.CO2GPerKm)

	return Calculation{
		TimeMin:                  timeMin,
		CO2G:                     co2,
		CaloriesKcal:             calories,
		DriveTimeMin:             driveTime,
		DriveCO2G:                driveCO2,
		VsDriveCO2SavedG:         round2(driveCO2 - co2),
		VsDriveTimeDeltaMin:      round2(timeMin - driveTime),
		VsDriveCaloriesDeltaKcal: round2(calories),
	}, nil
}

// round2 rounds half up on the value scaled to hundredths. The conversions
// keep the compiler from fusing the multiply-add.
func round2(n float64) float64 {
	return math.Floor(float64(n*100)+0.5) / 100
}
