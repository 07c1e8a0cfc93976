package main

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/ilkoid/plenty-api/pkg/plenty"
)

// plentyAPI - методы клиента, которые вызывает CLI.
type plentyAPI interface {
	GetOrders(ctx context.Context, q plenty.OrderQuery) ([]map[string]any, error)
	GetItems(ctx context.Context, q plenty.ListQuery) ([]map[string]any, error)
	GetVariations(ctx context.Context, q plenty.ListQuery) ([]plenty.Variation, error)
	GetManufacturers(ctx context.Context, q plenty.ListQuery) ([]plenty.Manufacturer, error)
	GetVATMapping(ctx context.Context, subset []int) (map[string]plenty.VATConfig, error)
	GetPriceConfigurations(ctx context.Context, q plenty.ListQuery) ([]plenty.ShrunkSalesPrice, error)
	GetAttributes(ctx context.Context, q plenty.AttributeQuery) ([]plenty.Attribute, error)
}

var _ plentyAPI = (*plenty.Client)(nil)

// request - параметры команды из флагов.
type request struct {
	Start          string
	End            string
	DateType       string
	Refine         map[string]string
	With           []string
	Lang           string
	Subset         []int
	LinkVariations bool
}

// commands - команда (и её единственное число) → каноническое имя.
var commands = map[string]string{
	"orders": "orders", "order": "orders",
	"items": "items", "item": "items",
	"variations": "variations", "variation": "variations",
	"manufacturers": "manufacturers", "manufacturer": "manufacturers",
	"vat":    "vat",
	"prices": "prices", "price": "prices",
	"attributes": "attributes", "attribute": "attributes",
}

// commandFlags - флаги, которые команда передаёт в запрос.
var commandFlags = map[string][]string{
	"orders":        {"start", "end", "refine", "with"},
	"items":         {"refine", "with", "lang"},
	"variations":    {"refine", "with", "lang"},
	"manufacturers": {"refine", "with"},
	"vat":           {"subset"},
	"prices":        {"refine", "with"},
	"attributes":    {"refine", "with", "lang", "link-variations"},
}

// setFlags возвращает заданные в request флаги.
func (r request) setFlags() []string {
	var set []string
	add := func(name string, ok bool) {
		if ok {
			set = append(set, name)
		}
	}
	add("start", r.Start != "")
	add("end", r.End != "")
	add("refine", len(r.Refine) > 0)
	add("with", len(r.With) > 0)
	add("lang", r.Lang != "")
	add("subset", len(r.Subset) > 0)
	add("link-variations", r.LinkVariations)
	return set
}

// checkFlags отклоняет флаги, которые команда не использует.
func checkFlags(command string, req request) error {
	allowed := commandFlags[command]
	for _, name := range req.setFlags() {
		if !slices.Contains(allowed, name) {
			return fmt.Errorf("flag -%s is not supported by command %q", name, command)
		}
	}
	return nil
}

// execute выполняет команду и возвращает результат для вывода/экспорта.
func execute(ctx context.Context, api plentyAPI, command string, req request) (any, error) {
	name, ok := commands[strings.ToLower(command)]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", command)
	}
	if err := checkFlags(name, req); err != nil {
		return nil, err
	}

	list := plenty.ListQuery{Refine: req.Refine, Additional: req.With, Lang: req.Lang}

	switch name {
	case "orders":
		return api.GetOrders(ctx, plenty.OrderQuery{
			Start:      req.Start,
			End:        req.End,
			DateType:   req.DateType,
			Refine:     req.Refine,
			Additional: req.With,
		})
	case "items":
		return api.GetItems(ctx, list)
	case "variations":
		return api.GetVariations(ctx, list)
	case "manufacturers":
		return api.GetManufacturers(ctx, list)
	case "vat":
		return api.GetVATMapping(ctx, req.Subset)
	case "prices":
		return api.GetPriceConfigurations(ctx, list)
	default:
		return api.GetAttributes(ctx, plenty.AttributeQuery{ListQuery: list, LinkVariations: req.LinkVariations})
	}
}

// refineFlag - повторяемый флаг -refine key=value.
type refineFlag map[string]string

func (r refineFlag) String() string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+r[k])
	}
	return strings.Join(pairs, ",")
}

func (r refineFlag) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("refine must be key=value, got %q", value)
	}
	r[key] = strings.TrimSpace(val)
	return nil
}

// parseList разбирает "a, b,,c" → [a b c].
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseSubset разбирает список countryId.
func parseSubset(s string) ([]int, error) {
	parts := parseList(s)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid country id %q in -subset", p)
		}
		out = append(out, id)
	}
	return out, nil
}
