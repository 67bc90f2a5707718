package schemas

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPlanDocument = `{
	"qualification": {"name": "Certificate III in Carpentry", "code": "CPC30220"},
	"duration": {"weeks": 2, "total_hours": 40},
	"delivery_mode": "blended",
	"weekly_plan": [
		{"week": 1, "topic": "Site safety", "hours": 20, "unit_codes": ["CPCCWHS2001"]},
		{"week": 2, "topic": "Tools", "hours": 20}
	],
	"units": [
		{"code": "CPCCWHS2001", "title": "Apply WHS requirements", "nominal_hours": 20, "core": true}
	]
}`

func TestEmbeddedSchemasAreValidJSON(t *testing.T) {
	for _, name := range []string{PlanSchema, IntakeSchema} {
		t.Run(name, func(t *testing.T) {
			raw, err := schemaFS.ReadFile(name)
			require.NoError(t, err)
			var parsed map[string]any
			require.NoError(t, json.Unmarshal(raw, &parsed))
			assert.Equal(t, "object", parsed["type"])
			assert.NotEmpty(t, parsed["required"])
		})
	}
}

func TestValidatePlanDocument(t *testing.T) {
	assert.NoError(t, Validate(PlanSchema, []byte(validPlanDocument)))
}

func TestValidatePlanDocumentViolations(t *testing.T) {
	document := `{
		"qualification": {"name": "Certificate III in Carpentry"},
		"duration": {"weeks": 0, "total_hours": 40},
		"delivery_mode": "carrier_pigeon",
		"weekly_plan": [],
		"units": [{"code": "CPCCWHS2001", "title": "Apply WHS requirements", "nominal_hours": 20}]
	}`

	err := Validate(PlanSchema, []byte(document))
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.GreaterOrEqual(t, len(ve.Errors), 4)

	fields := make(map[string]bool)
	for _, fe := range ve.Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["qualification"] || fields["qualification.code"], "missing code should be reported, got %v", ve.Errors)
	assert.True(t, fields["duration.weeks"])
	assert.True(t, fields["delivery_mode"])
	assert.True(t, fields["weekly_plan"])
}

func TestValidateUnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", []byte(`{}`))
	var sle *SchemaLoadError
	require.True(t, errors.As(err, &sle))
	assert.Equal(t, "missing.schema.json", sle.Name)
}

func TestValidateIntakeDocument(t *testing.T) {
	document := `{
		"qualification_name": "Certificate III in Carpentry",
		"delivery_mode": "face_to_face",
		"duration": {"weeks": 12},
		"cohort_profile": "Sixteen apprentices in their first year on site."
	}`
	assert.NoError(t, Validate(IntakeSchema, []byte(document)))

	short := `{
		"qualification_name": "Certificate III in Carpentry",
		"delivery_mode": "face_to_face",
		"duration": {"weeks": 12},
		"cohort_profile": "short"
	}`
	err := Validate(IntakeSchema, []byte(short))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(validPlanDocument), 0o644))
	assert.NoError(t, ValidateFile(PlanSchema, path))

	err := ValidateFile(PlanSchema, filepath.Join(dir, "absent.json"))
	assert.Error(t, err)
}
