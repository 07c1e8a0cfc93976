package plenty

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// DecodeVATRecords разбирает JSON-массив записей НДС.
//
// Элементы, которые не являются объектами, пропускаются.
// Некорректный массив даёт nil.
func DecodeVATRecords(raw json.RawMessage) []VATRecord {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	records := make([]VATRecord, 0, len(items))
	for _, item := range items {
		if !bytes.HasPrefix(bytes.TrimSpace(item), []byte("{")) {
			continue
		}
		var rec VATRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// CreateVATMapping группирует записи НДС по стране.
//
// Ключ - countryId строкой. Config содержит id записей в порядке входа,
// TaxId берётся из первой записи страны.
// subset ограничивает набор стран; пустой subset означает все страны.
func CreateVATMapping(records []VATRecord, subset []int) map[string]VATConfig {
	allowed := make(map[int]struct{}, len(subset))
	for _, countryID := range subset {
		allowed[countryID] = struct{}{}
	}

	mapping := make(map[string]VATConfig)
	for _, rec := range records {
		if len(allowed) > 0 {
			if _, ok := allowed[rec.CountryID]; !ok {
				continue
			}
		}

		key := strconv.Itoa(rec.CountryID)
		cfg, seen := mapping[key]
		if !seen {
			cfg.TaxID = rec.TaxIDNumber
		}
		cfg.Config = append(cfg.Config, strconv.Itoa(rec.ID))
		mapping[key] = cfg
	}
	return mapping
}
