package plenty

// AttributeVariationMapping связывает значения атрибута с вариациями.
//
// Вариация привязывается к значению, если среди её variationAttributeValues
// есть пара (attribute.ID, value.ID). ID вариаций идут в порядке обхода.
// Значения без совпадений остаются без LinkedVariations.
//
// nil attribute даёт nil; nil variations - копию атрибута без связей.
// Входной атрибут не изменяется.
func AttributeVariationMapping(attribute *Attribute, variations []Variation) *Attribute {
	if attribute == nil {
		return nil
	}

	out := *attribute
	out.Values = make([]AttributeValue, len(attribute.Values))
	for i, value := range attribute.Values {
		value.ValueNames = append([]AttributeValueName(nil), value.ValueNames...)
		value.LinkedVariations = nil
		if variations != nil {
			value.LinkedVariations = linkedVariations(attribute.ID, value.ID, variations)
		}
		out.Values[i] = value
	}
	return &out
}

func linkedVariations(attributeID, valueID int, variations []Variation) []int {
	var linked []int
	for _, v := range variations {
		for _, av := range v.VariationAttributeValues {
			if av.AttributeID == attributeID && av.ValueID == valueID {
				linked = append(linked, v.ID)
				break
			}
		}
	}
	return linked
}
