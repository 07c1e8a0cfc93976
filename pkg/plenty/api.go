package plenty

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ilkoid/plenty-api/pkg/utils"
)

// OrderQuery - параметры выборки заказов.
type OrderQuery struct {
	Start      string            // Любой формат, который принимает DateNormalizer
	End        string            // Пусто вместе со Start - без фильтра по дате
	DateType   string            // Creation, Payment, Change, Delivery
	Refine     map[string]string // Фильтры, проверяются по таблице домена order
	Additional []string          // Связи для with[]
}

// ListQuery - параметры выборки товаров, вариаций и производителей.
type ListQuery struct {
	Refine     map[string]string
	Additional []string
	Lang       string
}

// decodeEntries разбирает записи страницы в T.
func decodeEntries[T any](entries []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(entries))
	for i, raw := range entries {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode entry %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// GetOrders возвращает заказы, отфильтрованные по диапазону дат и refine.
//
// Диапазон, в котором start позже end или start в будущем, не отклоняется:
// запрос выполняется, в лог пишется предупреждение.
func (c *Client) GetOrders(ctx context.Context, q OrderQuery) ([]map[string]any, error) {
	query := url.Values{}
	if q.Start != "" || q.End != "" {
		r, ok := c.dates.BuildRange(q.Start, q.End)
		if !ok {
			return nil, fmt.Errorf("invalid date range: start=%q end=%q", q.Start, q.End)
		}
		if !c.dates.CheckRange(r) {
			utils.Warn("suspicious date range", "run_id", c.runID, "start", r.Start, "end", r.End)
		}
		dateType := q.DateType
		if dateType == "" {
			dateType = DateTypeCreation
		}
		query = BuildQueryDate(r, dateType)
		if len(query) == 0 {
			return nil, fmt.Errorf("unknown date type %q", q.DateType)
		}
	}

	query = SanityCheckParameter("order", query, q.Refine, q.Additional, "")

	entries, err := c.fetchAll(ctx, RouteOrders, query)
	if err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}
	return decodeEntries[map[string]any](entries)
}

// GetItems возвращает товары.
func (c *Client) GetItems(ctx context.Context, q ListQuery) ([]map[string]any, error) {
	query := SanityCheckParameter("item", nil, q.Refine, q.Additional, q.Lang)
	entries, err := c.fetchAll(ctx, RouteItems, query)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return decodeEntries[map[string]any](entries)
}

// GetVariations возвращает вариации.
func (c *Client) GetVariations(ctx context.Context, q ListQuery) ([]Variation, error) {
	query := SanityCheckParameter("variation", nil, q.Refine, q.Additional, q.Lang)
	entries, err := c.fetchAll(ctx, RouteVariations, query)
	if err != nil {
		return nil, fmt.Errorf("get variations: %w", err)
	}
	return decodeEntries[Variation](entries)
}

// GetManufacturers возвращает производителей.
func (c *Client) GetManufacturers(ctx context.Context, q ListQuery) ([]Manufacturer, error) {
	query := SanityCheckParameter("manufacturer", nil, q.Refine, q.Additional, q.Lang)
	entries, err := c.fetchAll(ctx, RouteManufacturers, query)
	if err != nil {
		return nil, fmt.Errorf("get manufacturers: %w", err)
	}
	return decodeEntries[Manufacturer](entries)
}

// GetVATMapping возвращает конфигурации НДС, сгруппированные по стране.
//
// subset - список countryId; пустой означает все страны.
func (c *Client) GetVATMapping(ctx context.Context, subset []int) (map[string]VATConfig, error) {
	entries, err := c.fetchAll(ctx, RouteVAT, nil)
	if err != nil {
		return nil, fmt.Errorf("get vat: %w", err)
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("marshal vat entries: %w", err)
	}
	return CreateVATMapping(DecodeVATRecords(raw), subset), nil
}

// priceRelations - связи, которые нужны ShrinkPriceConfiguration.
var priceRelations = []string{
	"names", "accounts", "clients", "countries", "currencies", "customerClasses", "referrers",
}

// GetPriceConfigurations возвращает сжатые конфигурации цен продажи.
// Пустые конфигурации пропускаются.
//
// Без q.Additional загружаются все связи priceRelations.
// Домен цен не локализован, q.Lang игнорируется.
func (c *Client) GetPriceConfigurations(ctx context.Context, q ListQuery) ([]ShrunkSalesPrice, error) {
	additional := q.Additional
	if len(additional) == 0 {
		additional = priceRelations
	}
	query := SanityCheckParameter("price", nil, q.Refine, additional, "")
	entries, err := c.fetchAll(ctx, RouteSalesPrices, query)
	if err != nil {
		return nil, fmt.Errorf("get sales prices: %w", err)
	}

	prices, err := decodeEntries[SalesPrice](entries)
	if err != nil {
		return nil, err
	}

	out := make([]ShrunkSalesPrice, 0, len(prices))
	for _, p := range prices {
		if shrunk, ok := ShrinkPriceConfiguration(p); ok {
			out = append(out, shrunk)
		}
	}
	return out, nil
}

// AttributeQuery - параметры GetAttributes.
type AttributeQuery struct {
	ListQuery
	// LinkVariations дополнительно загружает вариации и заполняет
	// LinkedVariations у значений (см. AttributeVariationMapping).
	LinkVariations bool
}

// GetAttributes возвращает атрибуты со значениями.
// Связь values запрашивается всегда, q.Additional добавляется к ней.
func (c *Client) GetAttributes(ctx context.Context, q AttributeQuery) ([]Attribute, error) {
	additional := []string{"values"}
	for _, a := range q.Additional {
		if !contains(additional, a) {
			additional = append(additional, a)
		}
	}
	query := SanityCheckParameter("attribute", nil, q.Refine, additional, q.Lang)
	entries, err := c.fetchAll(ctx, RouteAttributes, query)
	if err != nil {
		return nil, fmt.Errorf("get attributes: %w", err)
	}

	attributes, err := decodeEntries[Attribute](entries)
	if err != nil {
		return nil, err
	}
	if !q.LinkVariations {
		return attributes, nil
	}

	variations, err := c.GetVariations(ctx, ListQuery{Additional: []string{"variationAttributeValues"}})
	if err != nil {
		return nil, err
	}

	linked := make([]Attribute, 0, len(attributes))
	for i := range attributes {
		linked = append(linked, *AttributeVariationMapping(&attributes[i], variations))
	}
	return linked, nil
}
