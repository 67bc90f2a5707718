package types

// TrainingPlan is the final structured output of the generation pipeline,
// valid only after it has passed every schema rule. It is never mutated after
// validation.
type TrainingPlan struct {
	Qualification Qualification `json:"qualification"`
	Duration      Duration      `json:"duration"`
	DeliveryMode  string        `json:"delivery_mode"`

	WeeklyPlan []WeeklyEntry `json:"weekly_plan"`
	Units      []UnitEntry   `json:"units"`

	// Optional sections. The schema tolerates their absence.
	Resources       []Resource `json:"resources,omitempty"`
	Risks           []Risk     `json:"risks,omitempty"`
	Assumptions     []string   `json:"assumptions,omitempty"`
	ComplianceNotes string     `json:"compliance_notes,omitempty"`
	Confidence      *float64   `json:"confidence,omitempty"`
	GenerationNotes string     `json:"generation_notes,omitempty"`
}

// Qualification identifies the qualification the plan delivers.
type Qualification struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// WeeklyEntry is one week of the delivery schedule. Week numbers are positive
// and unique within the plan.
type WeeklyEntry struct {
	Week       int      `json:"week"`
	Topic      string   `json:"topic"`
	Hours      float64  `json:"hours"`
	UnitCodes  []string `json:"unit_codes,omitempty"`
	Activities []string `json:"activities,omitempty"`
	Assessment string   `json:"assessment,omitempty"`
}

// UnitEntry is one unit of study. Codes are unique within the plan and match
// the national unit code pattern.
type UnitEntry struct {
	Code           string  `json:"code"`
	Title          string  `json:"title"`
	NominalHours   float64 `json:"nominal_hours"`
	Core           bool    `json:"core,omitempty"`
	AssessmentType string  `json:"assessment_type,omitempty"`
}

// Resource is an item of the resource inventory.
type Resource struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Risk is a single identified delivery risk.
type Risk struct {
	Category   string `json:"category"`
	Detail     string `json:"detail"`
	Mitigation string `json:"mitigation,omitempty"`
}

// AssessmentTypes is the canonical set of accepted assessment methods.
var AssessmentTypes = []string{
	"written",
	"practical",
	"project",
	"observation",
	"portfolio",
	"presentation",
}

// RiskCategories is the canonical set of accepted risk categories.
var RiskCategories = []string{
	"scheduling",
	"resources",
	"compliance",
	"learner",
	"assessment",
}

// TotalWeeklyHours sums the declared hours across the weekly schedule.
func (p *TrainingPlan) TotalWeeklyHours() float64 {
	var total float64
	for _, w := range p.WeeklyPlan {
		total += w.Hours
	}
	return total
}
