package plenty

// IsEmpty сообщает, что конфигурация не содержит данных (например ответ "{}").
func (p SalesPrice) IsEmpty() bool {
	return p.ID == 0 && p.Type == "" &&
		len(p.Names) == 0 && len(p.Accounts) == 0 && len(p.Clients) == 0 &&
		len(p.Countries) == 0 && len(p.Currencies) == 0 &&
		len(p.CustomerClasses) == 0 && len(p.Referrers) == 0
}

// ShrinkPriceConfiguration оставляет от конфигурации цены только идентификаторы.
//
// Из каждого вложенного списка берётся одно поле:
//   - names → lang: nameExternal
//   - referrers → referrerId, accounts → accountId, clients → plentyId
//   - countries → countryId, currencies → currency, customerClasses → customerClassId
//
// Пустая конфигурация даёт (ShrunkSalesPrice{}, false).
func ShrinkPriceConfiguration(price SalesPrice) (ShrunkSalesPrice, bool) {
	if price.IsEmpty() {
		return ShrunkSalesPrice{}, false
	}

	out := ShrunkSalesPrice{
		ID:              price.ID,
		Type:            price.Type,
		Position:        price.Position,
		Names:           make(map[string]string, len(price.Names)),
		Referrers:       make([]float64, 0, len(price.Referrers)),
		Accounts:        make([]int, 0, len(price.Accounts)),
		Clients:         make([]int, 0, len(price.Clients)),
		Countries:       make([]int, 0, len(price.Countries)),
		Currencies:      make([]string, 0, len(price.Currencies)),
		CustomerClasses: make([]int, 0, len(price.CustomerClasses)),
	}

	for _, n := range price.Names {
		out.Names[n.Lang] = n.NameExternal
	}
	for _, r := range price.Referrers {
		out.Referrers = append(out.Referrers, r.ReferrerID)
	}
	for _, a := range price.Accounts {
		out.Accounts = append(out.Accounts, a.AccountID)
	}
	for _, c := range price.Clients {
		out.Clients = append(out.Clients, c.PlentyID)
	}
	for _, c := range price.Countries {
		out.Countries = append(out.Countries, c.CountryID)
	}
	for _, c := range price.Currencies {
		out.Currencies = append(out.Currencies, c.Currency)
	}
	for _, c := range price.CustomerClasses {
		out.CustomerClasses = append(out.CustomerClasses, c.CustomerClassID)
	}

	return out, true
}
