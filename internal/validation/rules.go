package validation

import (
	"regexp"

	"github.com/jonathan/course-planner/internal/types"
)

// valueType names the JSON primitive a rule expects at its path.
type valueType string

const (
	typeString  valueType = "string"
	typeNumber  valueType = "number"
	typeInteger valueType = "integer"
	typeBoolean valueType = "boolean"
	typeArray   valueType = "array"
	typeObject  valueType = "object"
)

// Rule is one declarative field constraint. Paths use dot notation and a
// trailing "[]" on a segment fans the rule out over every element of that
// array, indexing the reported path (e.g. "weekly_plan[2].week").
type Rule struct {
	Path     string
	Required bool
	Type     valueType
	Enum     []string
	Min      *float64
	Max      *float64
	MinLen   int
	NonEmpty bool
	Pattern  *regexp.Regexp
}

// UniqueRule requires that a scalar field be unique across the elements of
// an array. Violations are reported against the duplicate element's path.
type UniqueRule struct {
	ArrayPath string
	Field     string
	Label     string
}

var unitCodePattern = regexp.MustCompile(`^[A-Z]{2,10}\d{3,4}$`)

func f(v float64) *float64 { return &v }

// planRules is the canonical constraint set for a generated training plan.
// Unknown fields on the candidate are ignored so optional sections the
// model invents do not fail validation.
var planRules = []Rule{
	{Path: "qualification", Required: true, Type: typeObject},
	{Path: "qualification.name", Required: true, Type: typeString, MinLen: 1},
	{Path: "qualification.code", Required: true, Type: typeString, MinLen: 1},

	{Path: "duration", Required: true, Type: typeObject},
	{Path: "duration.weeks", Required: true, Type: typeInteger, Min: f(1), Max: f(208)},
	{Path: "duration.total_hours", Required: true, Type: typeInteger, Min: f(1)},

	{Path: "delivery_mode", Required: true, Type: typeString, Enum: deliveryModeValues()},

	{Path: "weekly_plan", Required: true, Type: typeArray, NonEmpty: true},
	{Path: "weekly_plan[].week", Required: true, Type: typeInteger, Min: f(1)},
	{Path: "weekly_plan[].topic", Required: true, Type: typeString, MinLen: 1},
	{Path: "weekly_plan[].hours", Required: true, Type: typeNumber, Min: f(0.5)},
	{Path: "weekly_plan[].unit_codes", Type: typeArray},
	{Path: "weekly_plan[].unit_codes[]", Type: typeString, Pattern: unitCodePattern},

	{Path: "units", Required: true, Type: typeArray, NonEmpty: true},
	{Path: "units[].code", Required: true, Type: typeString, Pattern: unitCodePattern},
	{Path: "units[].title", Required: true, Type: typeString, MinLen: 1},
	{Path: "units[].nominal_hours", Required: true, Type: typeNumber, Min: f(0.5)},
	{Path: "units[].core", Type: typeBoolean},
	{Path: "units[].assessment_type", Type: typeString, Enum: types.AssessmentTypes},

	{Path: "resources[].name", Required: true, Type: typeString, MinLen: 1},
	{Path: "resources[].quantity", Type: typeInteger, Min: f(1)},
	{Path: "resources[].notes", Type: typeString},

	{Path: "risks[].category", Required: true, Type: typeString, Enum: types.RiskCategories},
	{Path: "risks[].detail", Required: true, Type: typeString, MinLen: 1},
	{Path: "risks[].mitigation", Type: typeString},

	{Path: "assumptions", Type: typeArray},
	{Path: "assumptions[]", Type: typeString},
	{Path: "compliance_notes", Type: typeString},
	{Path: "confidence", Type: typeNumber, Min: f(0), Max: f(1)},
	{Path: "generation_notes", Type: typeString},
}

var planUniqueRules = []UniqueRule{
	{ArrayPath: "weekly_plan", Field: "week", Label: "week number"},
	{ArrayPath: "units", Field: "code", Label: "unit code"},
}

func deliveryModeValues() []string {
	modes := types.DeliveryModes()
	out := make([]string, len(modes))
	for i, m := range modes {
		out[i] = string(m)
	}
	return out
}
