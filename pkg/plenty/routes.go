package plenty

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Маршруты REST API Plentymarkets.
const (
	RouteOrders        = "/rest/orders"
	RouteItems         = "/rest/items"
	RouteVariations    = "/rest/items/variations"
	RouteAttributes    = "/rest/items/attributes"
	RouteManufacturers = "/rest/items/manufacturers"
	RouteSalesPrices   = "/rest/items/sales_prices"
	RouteVAT           = "/rest/vat"
	RouteReferrers     = "/rest/orders/referrers"
	RouteProperties    = "/rest/properties"
	RouteWarehouses    = "/rest/stockmanagement/warehouses"
	RouteContacts      = "/rest/accounts/contacts"
	RouteLogin         = "/rest/login"
)

// routes - домен (в нижнем регистре) → маршрут.
// Единственное и множественное число перечислены явно.
var routes = map[string]string{
	"order":         RouteOrders,
	"orders":        RouteOrders,
	"item":          RouteItems,
	"items":         RouteItems,
	"variation":     RouteVariations,
	"variations":    RouteVariations,
	"attribute":     RouteAttributes,
	"attributes":    RouteAttributes,
	"manufacturer":  RouteManufacturers,
	"manufacturers": RouteManufacturers,
	"price":         RouteSalesPrices,
	"prices":        RouteSalesPrices,
	"sales_price":   RouteSalesPrices,
	"sales_prices":  RouteSalesPrices,
	"vat":           RouteVAT,
	"referrer":      RouteReferrers,
	"referrers":     RouteReferrers,
	"property":      RouteProperties,
	"properties":    RouteProperties,
	"warehouse":     RouteWarehouses,
	"warehouses":    RouteWarehouses,
	"contact":       RouteContacts,
	"contacts":      RouteContacts,
}

// knownRoutes - множество маршрутов, которые может вернуть GetRoute.
var knownRoutes = func() map[string]struct{} {
	m := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		m[r] = struct{}{}
	}
	return m
}()

// GetRoute возвращает путь REST API для домена.
//
// Регистр не важен: "ITEMS" и "item" дают "/rest/items".
// Для неизвестного домена возвращает ("", false).
func GetRoute(domain string) (string, bool) {
	route, ok := routes[strings.ToLower(strings.TrimSpace(domain))]
	return route, ok
}

// IsKnownRoute проверяет, что маршрут может быть получен через GetRoute.
func IsKnownRoute(route string) bool {
	_, ok := knownRoutes[route]
	return ok
}

// DefaultHostPattern - шаблон адреса системы Plentymarkets.
//
// Примеры: https://shop.plentymarkets-cloud01.com, https://shop.plentymarkets-cloud-de.com
const DefaultHostPattern = `^https://[a-zA-Z0-9-]+\.plentymarkets-cloud(\d{2}|-[a-z]{2})\.com$`

var (
	// ErrInvalidBaseURL - базовый URL не соответствует шаблону хоста.
	ErrInvalidBaseURL = errors.New("invalid plentymarkets base url")
	// ErrInvalidRoute - маршрут не входит в таблицу маршрутов.
	ErrInvalidRoute = errors.New("invalid plentymarkets route")
)

// EndpointBuilder собирает полный адрес endpoint из базового URL и маршрута.
type EndpointBuilder struct {
	host *regexp.Regexp
}

// NewEndpointBuilder создаёт builder с указанным шаблоном хоста.
// Пустой шаблон означает DefaultHostPattern.
func NewEndpointBuilder(hostPattern string) (*EndpointBuilder, error) {
	if hostPattern == "" {
		hostPattern = DefaultHostPattern
	}
	re, err := regexp.Compile(hostPattern)
	if err != nil {
		return nil, fmt.Errorf("compile host pattern: %w", err)
	}
	return &EndpointBuilder{host: re}, nil
}

var defaultEndpoints = &EndpointBuilder{host: regexp.MustCompile(DefaultHostPattern)}

// Build проверяет baseURL и route и возвращает их конкатенацию.
//
// При ошибке возвращает пустую строку и ErrInvalidBaseURL или ErrInvalidRoute.
func (b *EndpointBuilder) Build(baseURL, route string) (string, error) {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL == "" || !b.host.MatchString(baseURL) {
		return "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	if !IsKnownRoute(route) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRoute, route)
	}
	return baseURL + route, nil
}

// BuildEndpoint - Build с шаблоном хоста по умолчанию.
func BuildEndpoint(baseURL, route string) (string, error) {
	return defaultEndpoints.Build(baseURL, route)
}
