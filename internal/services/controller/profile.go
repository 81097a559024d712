package controller

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/growlab/pfal-controller/internal/model"
)

// DefaultProfile mirrors the reference leafy-greens setpoints the field
// units were tuned against.
func DefaultProfile() model.CropProfile {
	return model.CropProfile{
		ProfileName:            "default",
		PHTarget:               6.0,
		PHTolerance:            0.3,
		ECTarget:               1.5,
		ECTolerance:            0.2,
		TempMax:                28.0,
		HumidityMax:            70.0,
		LightsOnHour:           6,
		LightsOffHour:          22,
		PHPumpDurationMs:       1000,
		NutrientPumpDurationMs: 2000,
	}
}

// LoadProfile builds the control profile: built-in defaults, then the JSON
// profile file if path is non-empty, then individual env overrides on top.
// The result is validated before use.
func LoadProfile(path string) (model.CropProfile, error) {
	p := DefaultProfile()

	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return model.CropProfile{}, fmt.Errorf("read profile: %w", err)
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return model.CropProfile{}, fmt.Errorf("parse profile: %w", err)
		}
	}

	applyEnvOverrides(&p)

	if err := p.Validate(); err != nil {
		return model.CropProfile{}, fmt.Errorf("profile %q: %w", p.ProfileName, err)
	}
	return p, nil
}

func applyEnvOverrides(p *model.CropProfile) {
	if v := strings.TrimSpace(os.Getenv("PROFILE_NAME")); v != "" {
		p.ProfileName = v
	}
	p.PHTarget = getenvFloat("PH_TARGET", p.PHTarget)
	p.PHTolerance = getenvFloat("PH_TOLERANCE", p.PHTolerance)
	p.ECTarget = getenvFloat("EC_TARGET", p.ECTarget)
	p.ECTolerance = getenvFloat("EC_TOLERANCE", p.ECTolerance)
	p.TempMax = getenvFloat("TEMP_MAX", p.TempMax)
	p.HumidityMax = getenvFloat("HUMIDITY_MAX", p.HumidityMax)
	p.LightsOnHour = getenvInt("LIGHTS_ON_HOUR", p.LightsOnHour)
	p.LightsOffHour = getenvInt("LIGHTS_OFF_HOUR", p.LightsOffHour)
	p.PHPumpDurationMs = getenvInt("PH_PUMP_DURATION_MS", p.PHPumpDurationMs)
	p.NutrientPumpDurationMs = getenvInt("NUTRIENT_PUMP_DURATION_MS", p.NutrientPumpDurationMs)
}

// --------------------- small helpers ---------------------

func getenvFloat(k string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	if err != nil {
		return def
	}
	return f
}

func getenvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
