package h41

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/fedsheet/internal/model"
)

func TestDefaultRulesValid(t *testing.T) {
	rules := DefaultRules()
	require.NoError(t, rules.Validate())

	for _, ct := range model.ConceptTypes() {
		cat, ok := rules.Category(ct)
		require.True(t, ok, ct)
		assert.Equal(t, ct, cat.Type)
		assert.NotEmpty(t, cat.Rewrites)
	}
	assert.Len(t, rules.ExcludedSeries, 30)
}

func TestIsExcluded(t *testing.T) {
	rules := DefaultRules()
	assert.True(t, rules.IsExcluded("RESPPALGUON_N.WW"))
	assert.True(t, rules.IsExcluded("RESPPLLOO_N.WW"))
	assert.False(t, rules.IsExcluded("RESPPA_N.WW"))
	assert.False(t, rules.IsExcluded("RESPPALGUON"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Rules)
		msg    string
	}{
		{"missing namespace", func(r *Rules) { r.Namespaces.Compact = "" }, "namespaces"},
		{"missing status", func(r *Rules) { r.ActiveStatus = "" }, "active_status"},
		{"missing category", func(r *Rules) { r.Categories = r.Categories[:2] }, "capital missing"},
		{"duplicate category", func(r *Rules) { r.Categories[1].Type = model.ConceptTypeAssets }, "defined twice"},
		{"unknown type", func(r *Rules) { r.Categories[0].Type = "equity" }, "equity"},
		{"empty category code", func(r *Rules) { r.Categories[2].Category = "" }, "no category code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultRules()
			tt.mutate(rules)
			err := rules.Validate()
			require.ErrorIs(t, err, ErrInvalidRules)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestRulesYAMLRoundTrip(t *testing.T) {
	data, err := yaml.Marshal(DefaultRules())
	require.NoError(t, err)

	var got Rules
	require.NoError(t, yaml.Unmarshal(data, &got))
	require.NoError(t, got.Validate())

	want := DefaultRules()
	assert.Equal(t, want.ExcludedSeries, got.ExcludedSeries)
	assert.Equal(t, want.Categories, got.Categories)
	assert.True(t, got.IsExcluded("RESPPAR_N.WW"))
}

func TestIsExcludedFollowsEdits(t *testing.T) {
	rules := DefaultRules()
	require.True(t, rules.IsExcluded("RESPPAR_N.WW"))

	rules.ExcludedSeries = []string{"RESPPA_N.WW"}
	assert.False(t, rules.IsExcluded("RESPPAR_N.WW"))
	assert.True(t, rules.IsExcluded("RESPPA_N.WW"))
}
