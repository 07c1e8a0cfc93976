package plenty

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanityCheckParameter(t *testing.T) {
	tests := []struct {
		name       string
		domain     string
		query      url.Values
		refine     map[string]string
		additional []string
		lang       string
		want       url.Values
	}{
		{
			name:   "empty query",
			domain: "manufacturer",
			want:   url.Values{},
		},
		{
			name:       "variation with all valid arguments",
			domain:     "variation",
			refine:     map[string]string{"id": "1234", "itemId": "10234"},
			additional: []string{"properties", "stock"},
			lang:       "de",
			want: url.Values{
				"id":     {"1234"},
				"itemId": {"10234"},
				"with":   {"properties,stock"},
				"lang":   {"de"},
			},
		},
		{
			name:       "item drops unknown refine",
			domain:     "item",
			refine:     map[string]string{"id": "10234", "wrong": "wrong"},
			additional: []string{"variations", "itemImages"},
			want: url.Values{
				"id":   {"10234"},
				"with": {"variations,itemImages"},
			},
		},
		{
			name:       "order keeps query and uses with[]",
			domain:     "order",
			query:      url.Values{"orderType": {"1"}},
			refine:     map[string]string{"wrong": "wrong"},
			additional: []string{"wrong", "addresses", "documents"},
			want: url.Values{
				"orderType": {"1"},
				"with[]":    {"addresses", "documents"},
			},
		},
		{
			name:       "unknown domain returns query unchanged",
			domain:     "wrong",
			query:      url.Values{"shall": {"not_change"}},
			refine:     map[string]string{"should": "be_insignificant"},
			additional: []string{"nono"},
			lang:       "de",
			want:       url.Values{"shall": {"not_change"}},
		},
		{
			name:   "existing query value wins",
			domain: "order",
			query:  url.Values{"referrerId": {"1"}},
			refine: map[string]string{"referrerId": "4.01", "countryId": "1"},
			want: url.Values{
				"referrerId": {"1"},
				"countryId":  {"1"},
			},
		},
		{
			name:   "invalid language dropped",
			domain: "item",
			lang:   "Greece",
			want:   url.Values{},
		},
		{
			name:   "language normalized",
			domain: "Items",
			lang:   "EN",
			want:   url.Values{"lang": {"en"}},
		},
		{
			name:   "language ignored for non localized domain",
			domain: "order",
			lang:   "de",
			want:   url.Values{},
		},
		{
			name:       "sales_prices alias uses price table",
			domain:     "sales_prices",
			refine:     map[string]string{"type": "default", "itemId": "1"},
			additional: []string{"names", "variations"},
			want: url.Values{
				"type": {"default"},
				"with": {"names"},
			},
		},
		{
			name:       "unknown domain with nil query",
			domain:     "vat",
			refine:     map[string]string{"countryId": "1"},
			additional: []string{"names"},
			want:       url.Values{},
		},
		{
			name:       "all additional invalid",
			domain:     "attribute",
			additional: []string{"nope"},
			want:       url.Values{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanityCheckParameter(tt.domain, tt.query, tt.refine, tt.additional, tt.lang)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanityCheckParameter_DoesNotMutateInput(t *testing.T) {
	query := url.Values{"orderType": {"1"}}
	_ = SanityCheckParameter("order", query, map[string]string{"countryId": "1"}, []string{"addresses"}, "")
	assert.Equal(t, url.Values{"orderType": {"1"}}, query)
}

func TestSanityCheckParameter_ResultIsCopy(t *testing.T) {
	tests := []struct {
		name   string
		domain string
	}{
		{"known domain", "order"},
		{"unknown domain", "wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := url.Values{"orderType": {"1"}}
			got := SanityCheckParameter(tt.domain, query, nil, nil, "")
			got.Set("orderType", "7")
			got.Add("extra", "x")
			assert.Equal(t, url.Values{"orderType": {"1"}}, query)
		})
	}
}

func TestSanityCheckParameter_OrderEncoding(t *testing.T) {
	got := SanityCheckParameter("order", nil, map[string]string{"countryId": "1"}, []string{"shippingPackages"}, "")
	assert.Equal(t, "countryId=1&with%5B%5D=shippingPackages", got.Encode())
}

func TestLookupDomainParams(t *testing.T) {
	for _, domain := range []string{
		"order", "Orders", "item", "variations", "attribute", "price", "prices",
		"sales_price", "Sales_Prices", "manufacturers",
	} {
		_, ok := LookupDomainParams(domain)
		assert.True(t, ok, domain)
	}
	_, ok := LookupDomainParams("wrong")
	assert.False(t, ok)
}
