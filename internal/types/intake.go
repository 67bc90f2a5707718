// Package types provides type definitions for structured data used throughout the course-planner system.
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// DeliveryMode is the canonical set of program delivery modes.
type DeliveryMode string

// Canonical delivery modes. Legacy intake values (face_to_face, classroom,
// on_the_job) are folded into these by NormalizeDeliveryMode.
const (
	DeliveryInPerson  DeliveryMode = "in_person"
	DeliveryOnline    DeliveryMode = "online"
	DeliveryBlended   DeliveryMode = "blended"
	DeliveryWorkplace DeliveryMode = "workplace"
	DeliveryMixed     DeliveryMode = "mixed"
)

// DeliveryModes lists every accepted canonical delivery mode.
func DeliveryModes() []DeliveryMode {
	return []DeliveryMode{
		DeliveryInPerson,
		DeliveryOnline,
		DeliveryBlended,
		DeliveryWorkplace,
		DeliveryMixed,
	}
}

// deliveryModeAliases maps legacy spellings from older intake forms to the
// canonical mode set.
var deliveryModeAliases = map[string]DeliveryMode{
	"face_to_face": DeliveryInPerson,
	"face-to-face": DeliveryInPerson,
	"classroom":    DeliveryInPerson,
	"in-person":    DeliveryInPerson,
	"remote":       DeliveryOnline,
	"virtual":      DeliveryOnline,
	"hybrid":       DeliveryBlended,
	"on_the_job":   DeliveryWorkplace,
	"on-the-job":   DeliveryWorkplace,
}

// NormalizeDeliveryMode folds a raw intake value into the canonical mode set.
// Returns false if the value does not map to any known mode.
func NormalizeDeliveryMode(raw string) (DeliveryMode, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.ReplaceAll(v, " ", "_")
	for _, mode := range DeliveryModes() {
		if v == string(mode) {
			return mode, true
		}
	}
	if mode, ok := deliveryModeAliases[v]; ok {
		return mode, true
	}
	return "", false
}

// Duration holds the program length in weeks and total delivery hours.
type Duration struct {
	Weeks      int `json:"weeks" validate:"required,min=1,max=208"`
	TotalHours int `json:"total_hours" validate:"required,min=1"`
}

// IntakeRecord is the user-submitted description of a training program to be
// planned. It is immutable once submitted; Normalize must be called before the
// record is handed to the prompt builder.
type IntakeRecord struct {
	QualificationName string   `json:"qualification_name" validate:"required,min=3"`
	QualificationCode string   `json:"qualification_code" validate:"required,min=3"`
	DeliveryMode      string   `json:"delivery_mode" validate:"required"`
	Duration          Duration `json:"duration"`
	CohortProfile     string   `json:"cohort_profile" validate:"required,min=10"`

	// Optional fields. Absent fields are omitted from the prompt entirely.
	Resources             []string `json:"resources,omitempty"`
	AssessmentPreferences []string `json:"assessment_preferences,omitempty"`
	UnitListText          string   `json:"unit_list_text,omitempty"`
	UnitCatalogueURL      string   `json:"unit_catalogue_url,omitempty"`
}

// Normalize trims free-text fields and folds the delivery mode into the
// canonical set. Unknown delivery modes are left as-is so Validate can report
// them.
func (r *IntakeRecord) Normalize() {
	r.QualificationName = strings.TrimSpace(r.QualificationName)
	r.QualificationCode = strings.ToUpper(strings.TrimSpace(r.QualificationCode))
	r.CohortProfile = strings.TrimSpace(r.CohortProfile)
	r.UnitListText = strings.TrimSpace(r.UnitListText)

	if mode, ok := NormalizeDeliveryMode(r.DeliveryMode); ok {
		r.DeliveryMode = string(mode)
	}

	r.Resources = trimNonEmpty(r.Resources)
	r.AssessmentPreferences = trimNonEmpty(r.AssessmentPreferences)
}

// Validate validates the IntakeRecord using the validator.
func (r *IntakeRecord) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	if _, ok := NormalizeDeliveryMode(r.DeliveryMode); !ok {
		return &IntakeError{
			Field:   "delivery_mode",
			Message: "unknown delivery mode: " + r.DeliveryMode,
		}
	}
	return nil
}

// trimNonEmpty trims each entry and drops the blanks.
func trimNonEmpty(in []string) []string {
	if len(in) == 0 {
		return in
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
