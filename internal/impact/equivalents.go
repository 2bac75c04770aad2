package impact

// Divisors for the display-only equivalences.
const (
	gramsPerPhoneCharge = 8.22
	gramsPerKettleBoil  = 70
	gramsPerDrivenKm    = 170
	gramsPerTreeYear    = 22000
	gramsPerLEDHour     = 4.1

	kcalPerJoggingMin  = 10
	kcalPerSwimmingMin = 8
	kcalPerYogaMin     = 4
	kcalPerChocolate   = 230
)

type ImpactEquivalents struct {
	PhoneCharges      float64 `json:"phone_charges"`
	KettleBoils       float64 `json:"kettle_boils"`
	KmDrivingAvoided  float64 `json:"km_driving_avoided"`
	TreesYearFraction float64 `json:"trees_year_fraction"`
	LEDBulbHours      float64 `json:"led_bulb_hours"`
}

type CalorieEquivalents struct {
	JoggingMinutes  float64 `json:"jogging_minutes"`
	SwimmingMinutes float64 `json:"swimming_minutes"`
	YogaMinutes     float64 `json:"yoga_minutes"`
	ChocolateBars   float64 `json:"chocolate_bars"`
}

func ImpactEquivalentsFor(co2SavedG float64) ImpactEquivalents {
	return ImpactEquivalents{
		PhoneCharges:      round2(co2SavedG / gramsPerPhoneCharge),
		KettleBoils:       round2(co2SavedG / gramsPerKettleBoil),
		KmDrivingAvoided:  round2(co2SavedG / gramsPerDrivenKm),
		TreesYearFraction: round2(co2SavedG / gramsPerTreeYear),
		LEDBulbHours:      round2(co2SavedG / gramsPerLEDHour),
	}
}

func CalorieEquivalentsFor(caloriesKcal float64) CalorieEquivalents {
	return CalorieEquivalents{
		JoggingMinutes:  round2(caloriesKcal / kcalPerJoggingMin),
		SwimmingMinutes: round2(caloriesKcal / kcalPerSwimmingMin),
		YogaMinutes:     round2(caloriesKcal / kcalPerYogaMin),
		ChocolateBars:   round2(caloriesKcal / kcalPerChocolate),
	}
}
