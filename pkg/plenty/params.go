package plenty

import (
	"net/url"
	"strings"
)

// WithStyle - способ сериализации дополнительных связей (параметр with).
type WithStyle int

const (
	// WithComma - with=a,b
	WithComma WithStyle = iota
	// WithRepeated - with[]=a&with[]=b
	WithRepeated
)

// DomainParams - допустимые параметры запроса для домена.
type DomainParams struct {
	RefineKeys     []string
	AdditionalKeys []string
	WithStyle      WithStyle
	Localized      bool // принимает параметр lang
}

func (p DomainParams) allowsRefine(key string) bool {
	return contains(p.RefineKeys, key)
}

func (p DomainParams) allowsAdditional(key string) bool {
	return contains(p.AdditionalKeys, key)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// domainParams - таблица допустимых параметров.
// Новый домен добавляется записью в таблицу.
var domainParams = map[string]DomainParams{
	"order": {
		RefineKeys: []string{
			"orderType", "contactId", "referrerId", "shippingProfileId",
			"shippingServiceProviderId", "ownerUserId", "warehouseId",
			"isEbayPlus", "includedVariation", "includedItem", "orderIds",
			"countryId", "orderItemName", "variationNumber", "sender.contact",
			"sender.warehouse", "receiver.contact", "receiver.warehouse",
			"externalOrderId", "clientId", "paymentStatus", "statusFrom",
			"statusTo", "hasDocument", "hasDocumentNumber", "parentOrderId",
		},
		AdditionalKeys: []string{
			"addresses", "relations", "comments", "location", "payments",
			"documents", "contactSender", "contactReceiver",
			"warehouseSender", "warehouseReceiver", "orderItems.variation",
			"orderItems.giftCardCodes", "orderItems.transactions",
			"orderItems.serialNumbers", "orderItems.variationBarcodes",
			"orderItems.comments", "originOrderReferences", "shippingPackages",
		},
		WithStyle: WithRepeated,
	},
	"item": {
		RefineKeys: []string{
			"name", "manufacturer", "id", "flagOne", "flagTwo",
			"updatedBetween", "variationUpdatedBetween",
		},
		AdditionalKeys: []string{
			"itemProperties", "itemCrossSelling", "variations",
			"itemImages", "itemShippingProfiles", "ebayTitles",
		},
		WithStyle: WithComma,
		Localized: true,
	},
	"variation": {
		RefineKeys: []string{
			"id", "itemId", "flagOne", "flagTwo", "categoryId", "isMain",
			"isActive", "barcode", "referrerId", "sku", "date",
			"supplierNumber", "manufacturerId", "numberExact", "numberFuzzy",
		},
		AdditionalKeys: []string{
			"properties", "variationProperties", "variationBarcodes",
			"variationBundleComponents", "variationComponentBundles",
			"variationSalesPrices", "marketItemNumbers", "variationCategories",
			"variationClients", "variationMarkets", "variationDefaultCategory",
			"variationSuppliers", "variationWarehouses", "images", "itemImages",
			"variationAttributeValues", "variationSkus",
			"variationAdditionalSkus", "unit", "parent", "item", "stock",
		},
		WithStyle: WithComma,
		Localized: true,
	},
	"attribute": {
		RefineKeys:     []string{"updatedAt"},
		AdditionalKeys: []string{"names", "values", "maps"},
		WithStyle:      WithComma,
		Localized:      true,
	},
	"price": {
		RefineKeys: []string{"type", "updatedAt"},
		AdditionalKeys: []string{
			"names", "accounts", "clients", "countries", "currencies",
			"customerClasses", "referrers",
		},
		WithStyle: WithComma,
	},
	"manufacturer": {
		RefineKeys:     []string{"name", "updatedAt"},
		AdditionalKeys: []string{"commissions", "externals"},
		WithStyle:      WithComma,
	},
}

// domainAliases - имена доменов, совпадающие с ключами GetRoute.
var domainAliases = map[string]string{
	"sales_price":  "price",
	"sales_prices": "price",
	"salesprice":   "price",
	"salesprices":  "price",
}

// LookupDomainParams возвращает таблицу параметров домена.
// Регистр не важен, множественное число приводится к единственному,
// sales_price(s) означает price.
func LookupDomainParams(domain string) (DomainParams, bool) {
	p, ok := domainParams[canonicalDomain(domain)]
	return p, ok
}

func canonicalDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	if alias, ok := domainAliases[d]; ok {
		return alias
	}
	if _, ok := domainParams[d]; ok {
		return d
	}
	return strings.TrimSuffix(d, "s")
}

func copyValues(query url.Values) url.Values {
	out := make(url.Values, len(query))
	for k, v := range query {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// SanityCheckParameter проверяет и объединяет параметры запроса для домена.
//
// Ключи refine и значения additional, отсутствующие в таблице домена,
// молча отбрасываются. Для order связи сериализуются как with[],
// для остальных как with=a,b. lang добавляется только для доменов с
// локализацией и только для кода, который принимает GetLanguage.
//
// При совпадении ключей сохраняется значение из query.
// Результат всегда новая карта. Для неизвестного домена (vat, referrer и
// другие маршруты без таблицы) это копия query без refine, with и lang.
func SanityCheckParameter(domain string, query url.Values, refine map[string]string, additional []string, lang string) url.Values {
	out := copyValues(query)
	params, ok := LookupDomainParams(domain)
	if !ok {
		return out
	}

	setIfAbsent := func(key string, values ...string) {
		if _, exists := out[key]; exists || len(values) == 0 {
			return
		}
		out[key] = values
	}

	for key, value := range refine {
		if params.allowsRefine(key) {
			setIfAbsent(key, value)
		}
	}

	var with []string
	for _, a := range additional {
		if params.allowsAdditional(a) {
			with = append(with, a)
		}
	}
	if len(with) > 0 {
		switch params.WithStyle {
		case WithRepeated:
			setIfAbsent("with[]", with...)
		default:
			setIfAbsent("with", strings.Join(with, ","))
		}
	}

	if lang != "" && params.Localized {
		if code, valid := GetLanguage(lang); valid {
			setIfAbsent("lang", code)
		}
	}

	return out
}
