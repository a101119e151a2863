package classify

import (
	"testing"

	"casemark/internal/features"
)

// pistolRecord builds a record whose features sit squarely inside the
// pistol and 9mm ranges.
func pistolRecord() *features.FeatureRecord {
	return &features.FeatureRecord{
		ContourArea:   60000,
		ContourLen:    900,
		LBPUniformity: 0.12,
		FiringPinMarks: features.FiringPinSummary{
			NumCircularMarks: 2,
			AvgMarkRadius:    35,
		},
		StriationPatterns: features.StriationSummary{
			NumStriationLines: 12,
			ParallelismScore:  0.85,
		},
	}
}

func TestClassifyPistol(t *testing.T) {
	cls := New(nil).Classify(pistolRecord())

	if cls.WeaponType != "Pistol" {
		t.Errorf("weapon type = %q, want Pistol", cls.WeaponType)
	}
	if cls.Caliber == "Undetermined" {
		t.Error("caliber undetermined for a well-supported record")
	}
	if cls.Confidence < 0.3 || cls.Confidence > 1 {
		t.Errorf("confidence = %v, want in [0.3, 1]", cls.Confidence)
	}
	for _, key := range []string{"firing_pin", "striation", "silhouette", "texture"} {
		if _, ok := cls.Indicators[key]; !ok {
			t.Errorf("missing indicator %q", key)
		}
	}
	if len(cls.Evidence) == 0 {
		t.Error("no evidence lines for a feature-rich record")
	}
}

func TestClassifyEmptyRecord(t *testing.T) {
	cls := New(nil).Classify(&features.FeatureRecord{})

	if cls.WeaponType != "Undetermined" {
		t.Errorf("weapon type = %q, want Undetermined", cls.WeaponType)
	}
	if cls.Caliber != "Undetermined" {
		t.Errorf("caliber = %q, want Undetermined", cls.Caliber)
	}
	if cls.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", cls.Confidence)
	}
	if len(cls.Evidence) != 0 {
		t.Errorf("evidence = %v, want none", cls.Evidence)
	}
}

func TestClassifyShotgun(t *testing.T) {
	rec := &features.FeatureRecord{
		ContourArea:   300000,
		LBPUniformity: 0.5,
		FiringPinMarks: features.FiringPinSummary{
			NumCircularMarks: 1,
			AvgMarkRadius:    110,
		},
		StriationPatterns: features.StriationSummary{
			NumStriationLines: 2,
		},
	}

	cls := New(nil).Classify(rec)
	if cls.WeaponType != "Shotgun" {
		t.Errorf("weapon type = %q, want Shotgun", cls.WeaponType)
	}
}

func TestIndicatorsBounded(t *testing.T) {
	rec := pistolRecord()
	rec.FiringPinMarks.NumCircularMarks = 40
	rec.StriationPatterns.NumStriationLines = 500

	cls := New(nil).Classify(rec)
	for key, v := range cls.Indicators {
		if v < 0 || v > 1 {
			t.Errorf("indicator %q = %v, out of [0, 1]", key, v)
		}
	}
	if cls.Confidence > 1 {
		t.Errorf("confidence = %v, exceeds 1", cls.Confidence)
	}
}
