package entities

import "fmt"

// CropProfile bundles the control thresholds tuned for one plant/growth
// stage. Loaded once at startup and read-only afterwards.
type CropProfile struct {
	ProfileName            string  `json:"profile_name"`
	PHTarget               float64 `json:"ph_target"`
	PHTolerance            float64 `json:"ph_tolerance"`
	ECTarget               float64 `json:"ec_target"`
	ECTolerance            float64 `json:"ec_tolerance"`
	TempMax                float64 `json:"temp_max"`
	HumidityMax            float64 `json:"humidity_max"`
	LightsOnHour           int     `json:"lights_on_hour"`
	LightsOffHour          int     `json:"lights_off_hour"`
	PHPumpDurationMs       int     `json:"ph_pump_duration_ms"`
	NutrientPumpDurationMs int     `json:"nutrient_pump_duration_ms"`
}

// Validate checks the range invariants a profile must satisfy before the
// controller will run with it.
func (p CropProfile) Validate() error {
	if p.PHTolerance < 0 {
		return fmt.Errorf("ph_tolerance must be >= 0, got %v", p.PHTolerance)
	}
	if p.ECTolerance < 0 {
		return fmt.Errorf("ec_tolerance must be >= 0, got %v", p.ECTolerance)
	}
	if p.LightsOnHour < 0 || p.LightsOnHour > 23 {
		return fmt.Errorf("lights_on_hour must be in [0,23], got %d", p.LightsOnHour)
	}
	if p.LightsOffHour < 0 || p.LightsOffHour > 23 {
		return fmt.Errorf("lights_off_hour must be in [0,23], got %d", p.LightsOffHour)
	}
	if p.PHPumpDurationMs < 0 {
		return fmt.Errorf("ph_pump_duration_ms must be >= 0, got %d", p.PHPumpDurationMs)
	}
	if p.NutrientPumpDurationMs < 0 {
		return fmt.Errorf("nutrient_pump_duration_ms must be >= 0, got %d", p.NutrientPumpDurationMs)
	}
	return nil
}
