package controller

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()

	if p.PHTarget != 6.0 || p.PHTolerance != 0.3 {
		t.Errorf("pH band = %.2f±%.2f, want 6.00±0.30", p.PHTarget, p.PHTolerance)
	}
	if p.ECTarget != 1.5 || p.ECTolerance != 0.2 {
		t.Errorf("EC band = %.2f±%.2f, want 1.50±0.20", p.ECTarget, p.ECTolerance)
	}
	if p.TempMax != 28.0 || p.HumidityMax != 70.0 {
		t.Errorf("climate limits = %.1f/%.1f, want 28.0/70.0", p.TempMax, p.HumidityMax)
	}
	if p.LightsOnHour != 6 || p.LightsOffHour != 22 {
		t.Errorf("lighting schedule = %d-%d, want 6-22", p.LightsOnHour, p.LightsOffHour)
	}
	if p.PHPumpDurationMs != 1000 || p.NutrientPumpDurationMs != 2000 {
		t.Errorf("pump pulses = %d/%d ms, want 1000/2000", p.PHPumpDurationMs, p.NutrientPumpDurationMs)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("default profile invalid: %v", err)
	}
}

func TestLoadProfileWithoutFile(t *testing.T) {
	p, err := LoadProfile("")
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.ProfileName != "default" {
		t.Errorf("profile name = %q", p.ProfileName)
	}
}

func TestLoadProfileFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lettuce.json")
	content := `{"profile_name":"lettuce","ph_target":5.8,"temp_max":24.0}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.ProfileName != "lettuce" || p.PHTarget != 5.8 || p.TempMax != 24.0 {
		t.Errorf("loaded %+v", p)
	}
	// I campi assenti dal file mantengono i default.
	if p.ECTarget != 1.5 || p.LightsOffHour != 22 {
		t.Errorf("defaults lost: ec=%.2f off=%d", p.ECTarget, p.LightsOffHour)
	}
}

func TestLoadProfileEnvOverrides(t *testing.T) {
	t.Setenv("PH_TARGET", "6,2") // virgola decimale tollerata
	t.Setenv("LIGHTS_ON_HOUR", "8")
	t.Setenv("PROFILE_NAME", "basil")

	p, err := LoadProfile("")
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.PHTarget != 6.2 {
		t.Errorf("PH_TARGET override = %.2f, want 6.2", p.PHTarget)
	}
	if p.LightsOnHour != 8 {
		t.Errorf("LIGHTS_ON_HOUR override = %d, want 8", p.LightsOnHour)
	}
	if p.ProfileName != "basil" {
		t.Errorf("PROFILE_NAME override = %q", p.ProfileName)
	}
}

func TestLoadProfileEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	if err := os.WriteFile(path, []byte(`{"ph_target":5.8}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PH_TARGET", "6.5")

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.PHTarget != 6.5 {
		t.Errorf("pH target = %.2f, want env value 6.5", p.PHTarget)
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil || !strings.Contains(err.Error(), "read profile") {
		t.Fatalf("err = %v, want read failure", err)
	}
}

func TestLoadProfileBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadProfile(path)
	if err == nil || !strings.Contains(err.Error(), "parse profile") {
		t.Fatalf("err = %v, want parse failure", err)
	}
}

func TestLoadProfileRejectsInvalidValues(t *testing.T) {
	t.Setenv("LIGHTS_ON_HOUR", "25")

	if _, err := LoadProfile(""); err == nil {
		t.Fatal("want validation error for hour 25")
	}
}
