package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

func f64(v float64) *float64 { return &v }

func TestValidateValue_Text(t *testing.T) {
	p := &schema.ParameterSchema{ID: "url", Type: schema.ParamText}
	got, err := ValidateValue(p, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got)

	_, err = ValidateValue(p, 42)
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeValidation, schema.CodeOf(err))
}

func TestValidateValue_RequiredMissing(t *testing.T) {
	p := &schema.ParameterSchema{ID: "url", Type: schema.ParamText, Required: true}
	for _, v := range []any{nil, "", []any{}} {
		_, err := ValidateValue(p, v)
		require.Error(t, err)
		assert.Equal(t, schema.ErrCodeMissingParameter, schema.CodeOf(err))
	}
}

func TestValidateValue_RequiredWithDefaultAcceptsUnset(t *testing.T) {
	p := &schema.ParameterSchema{ID: "method", Type: schema.ParamText, Required: true, Default: "GET"}
	_, err := ValidateValue(p, nil)
	assert.NoError(t, err)
}

func TestValidateValue_OptionalUnset(t *testing.T) {
	p := &schema.ParameterSchema{ID: "note", Type: schema.ParamText}
	got, err := ValidateValue(p, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestValidateValue_NumberNormalizesToFloat64(t *testing.T) {
	p := &schema.ParameterSchema{ID: "timeout", Type: schema.ParamNumber, Min: f64(1), Max: f64(300)}

	got, err := ValidateValue(p, 30)
	require.NoError(t, err)
	assert.Equal(t, float64(30), got)

	got, err = ValidateValue(p, 2.5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, got)
}

func TestValidateValue_NumberRange(t *testing.T) {
	p := &schema.ParameterSchema{ID: "timeout", Type: schema.ParamNumber, Min: f64(1), Max: f64(300)}

	_, err := ValidateValue(p, 0.5)
	require.Error(t, err)
	_, err = ValidateValue(p, 301)
	require.Error(t, err)

	// A zero value is a real value, not "unset".
	_, err = ValidateValue(p, 0)
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeValidation, schema.CodeOf(err))
}

func TestValidateValue_Boolean(t *testing.T) {
	p := &schema.ParameterSchema{ID: "verify_tls", Type: schema.ParamBoolean, Required: true}

	got, err := ValidateValue(p, false)
	require.NoError(t, err)
	assert.Equal(t, false, got)

	_, err = ValidateValue(p, "true")
	require.Error(t, err)
}

func TestValidateValue_SelectMembership(t *testing.T) {
	p := &schema.ParameterSchema{ID: "method", Type: schema.ParamSelect, Options: []schema.SelectOption{
		{Value: "GET"}, {Value: "POST"},
	}}

	got, err := ValidateValue(p, "POST")
	require.NoError(t, err)
	assert.Equal(t, "POST", got)

	_, err = ValidateValue(p, "TRACE")
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeValidation, schema.CodeOf(err))
}

func TestValidateValue_MultiSelect(t *testing.T) {
	p := &schema.ParameterSchema{ID: "days", Type: schema.ParamMultiSelect, Options: []schema.SelectOption{
		{Value: "mon"}, {Value: "tue"}, {Value: "wed"},
	}}

	got, err := ValidateValue(p, []any{"mon", "wed"})
	require.NoError(t, err)
	assert.Equal(t, []string{"mon", "wed"}, got)

	_, err = ValidateValue(p, []any{"mon", "fri"})
	require.Error(t, err)
}

func TestValidateValue_CodeSyntaxChecked(t *testing.T) {
	p := &schema.ParameterSchema{ID: "condition", Type: schema.ParamCode, Syntax: "cel"}

	_, err := ValidateValue(p, `data.status_code == 200`)
	require.NoError(t, err)

	_, err = ValidateValue(p, `data.status ==`)
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeValidation, schema.CodeOf(err))
}

func TestValidateValue_TimeList(t *testing.T) {
	p := &schema.ParameterSchema{ID: "times", Type: schema.ParamTimeList}

	got, err := ValidateValue(p, []any{"09:00", "17:30:15"})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "17:30:15"}, got)

	_, err = ValidateValue(p, []any{"25:00"})
	require.Error(t, err)
	_, err = ValidateValue(p, []any{"9am"})
	require.Error(t, err)
}

func TestValidateValue_DateList(t *testing.T) {
	p := &schema.ParameterSchema{ID: "dates", Type: schema.ParamDateList}

	_, err := ValidateValue(p, []any{"2026-01-15", "2026-12-31"})
	require.NoError(t, err)

	_, err = ValidateValue(p, []any{"2026-13-01"})
	require.Error(t, err)
	_, err = ValidateValue(p, []any{"15/01/2026"})
	require.Error(t, err)
}

func TestValidateValue_KeyValueList(t *testing.T) {
	p := &schema.ParameterSchema{ID: "headers", Type: schema.ParamKeyValueList}

	_, err := ValidateValue(p, []any{
		map[string]any{"key": "Accept", "value": "application/json"},
	})
	require.NoError(t, err)

	_, err = ValidateValue(p, []any{map[string]any{"value": "no key"}})
	require.Error(t, err)
	_, err = ValidateValue(p, []any{"not an object"})
	require.Error(t, err)
}

func TestValidateValue_ExtractionListSyntaxChecked(t *testing.T) {
	p := &schema.ParameterSchema{ID: "extract", Type: schema.ParamExtractionList, Syntax: "jq"}

	_, err := ValidateValue(p, []any{
		map[string]any{"name": "hosts", "expression": `.items[] | .hostname`},
	})
	require.NoError(t, err)

	_, err = ValidateValue(p, []any{
		map[string]any{"name": "broken", "expression": `.items[`},
	})
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeValidation, schema.CodeOf(err))
}

func TestDefaults(t *testing.T) {
	def := &schema.NodeTypeDefinition{
		ID: "core:http_request",
		Parameters: []schema.ParameterSchema{
			{ID: "method", Type: schema.ParamSelect, Default: "GET"},
			{ID: "url", Type: schema.ParamText, Required: true},
			{ID: "verify_tls", Type: schema.ParamBoolean, Default: true},
		},
	}
	seeded := Defaults(def)
	assert.Equal(t, map[string]any{"method": "GET", "verify_tls": true}, seeded)
}
