package plenty

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAttribute() *Attribute {
	return &Attribute{
		ID:       1,
		Position: 1,
		Values: []AttributeValue{
			{ID: 1, AttributeID: 1, Position: 1, ValueNames: []AttributeValueName{
				{Lang: "de", ValueID: "1", Name: "rot"},
				{Lang: "en", ValueID: "1", Name: "red"},
			}},
			{ID: 2, AttributeID: 1, Position: 2, ValueNames: []AttributeValueName{
				{Lang: "de", ValueID: "2", Name: "grau"},
				{Lang: "en", ValueID: "2", Name: "grey"},
			}},
			{ID: 3, AttributeID: 1, Position: 3, ValueNames: []AttributeValueName{
				{Lang: "de", ValueID: "2", Name: "gelb"},
				{Lang: "en", ValueID: "2", Name: "yellow"},
			}},
		},
	}
}

func sampleVariations() []Variation {
	pairs := []struct {
		id, valueID int
	}{
		{1234, 1}, {2345, 1}, {3456, 1}, {4567, 2}, {5678, 2}, {6789, 4}, {7891, 4},
	}
	out := make([]Variation, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Variation{
			ID:                       p.id,
			VariationAttributeValues: []VariationAttributeValue{{AttributeID: 1, ValueID: p.valueID}},
		})
	}
	return out
}

func TestAttributeVariationMapping(t *testing.T) {
	got := AttributeVariationMapping(sampleAttribute(), sampleVariations())
	require.NotNil(t, got)
	require.Len(t, got.Values, 3)

	assert.Equal(t, []int{1234, 2345, 3456}, got.Values[0].LinkedVariations)
	assert.Equal(t, []int{4567, 5678}, got.Values[1].LinkedVariations)
	assert.Nil(t, got.Values[2].LinkedVariations)
	assert.Equal(t, "rot", got.Values[0].ValueNames[0].Name)
}

func TestAttributeVariationMapping_NoVariations(t *testing.T) {
	got := AttributeVariationMapping(sampleAttribute(), nil)
	require.NotNil(t, got)
	assert.Equal(t, sampleAttribute(), got)
}

func TestAttributeVariationMapping_NilAttribute(t *testing.T) {
	assert.Nil(t, AttributeVariationMapping(nil, sampleVariations()))
	assert.Nil(t, AttributeVariationMapping(nil, nil))
}

func TestAttributeVariationMapping_OtherAttributeIgnored(t *testing.T) {
	variations := []Variation{
		{ID: 1, VariationAttributeValues: []VariationAttributeValue{{AttributeID: 2, ValueID: 1}}},
	}
	got := AttributeVariationMapping(sampleAttribute(), variations)
	for _, v := range got.Values {
		assert.Nil(t, v.LinkedVariations)
	}
}

func TestAttributeVariationMapping_InputUnchanged(t *testing.T) {
	in := sampleAttribute()
	got := AttributeVariationMapping(in, sampleVariations())

	assert.Equal(t, sampleAttribute(), in)

	got.Values[0].ValueNames[0].Name = "changed"
	assert.Equal(t, "rot", in.Values[0].ValueNames[0].Name)
}

func TestAttributeVariationMapping_JSON(t *testing.T) {
	got := AttributeVariationMapping(sampleAttribute(), sampleVariations())
	data, err := json.Marshal(got.Values)
	require.NoError(t, err)

	var values []map[string]any
	require.NoError(t, json.Unmarshal(data, &values))

	assert.Contains(t, values[0], "linked_variations")
	assert.Contains(t, values[1], "linked_variations")
	assert.NotContains(t, values[2], "linked_variations")
}
