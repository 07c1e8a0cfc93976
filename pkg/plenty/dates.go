package plenty

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DateLayout - канонический формат даты для REST API: всегда числовое смещение.
const DateLayout = "2006-01-02T15:04:05-07:00"

// Clock поставляет текущее время и локальную временную зону.
//
// Позволяет подменять системное время в тестах.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

// SystemClock - Clock поверх системного времени и time.Local.
type SystemClock struct{}

func (SystemClock) Now() time.Time           { return time.Now() }
func (SystemClock) Location() *time.Location { return time.Local }

// FixedClock - Clock с фиксированным временем и зоной.
type FixedClock struct {
	T   time.Time
	Loc *time.Location
}

func (c FixedClock) Now() time.Time { return c.T }

func (c FixedClock) Location() *time.Location {
	if c.Loc == nil {
		return time.UTC
	}
	return c.Loc
}

// DateRange - пара нормализованных дат.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IsZero сообщает, что хотя бы одна граница не задана.
func (r DateRange) IsZero() bool {
	return r.Start == "" || r.End == ""
}

// Форматы со смещением или суффиксом Z. Смещение: +02:00, +0200 или +02.
// Дробные секунды допускаются при разборе любым из форматов.
var zonedLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04Z07",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04Z07:00",
}

// zonedOutputLayout - DateLayout с дробными секундами, если они были во входе.
const zonedOutputLayout = "2006-01-02T15:04:05.999999999-07:00"

// Форматы без смещения: к ним добавляется локальное смещение.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02-01-2006",
	"2006.01.02",
	"02.01.2006",
}

// DateNormalizer приводит даты разных форматов к DateLayout.
type DateNormalizer struct {
	clock Clock
}

// NewDateNormalizer создаёт нормализатор. nil clock означает SystemClock.
func NewDateNormalizer(clock Clock) *DateNormalizer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &DateNormalizer{clock: clock}
}

// UTCOffset возвращает смещение локальной зоны от UTC в виде ±HH:MM.
func (n *DateNormalizer) UTCOffset() string {
	return formatOffset(n.offsetSeconds())
}

func (n *DateNormalizer) offsetSeconds() int {
	_, offset := n.clock.Now().In(n.clock.Location()).Zone()
	return offset
}

func formatOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("%c%02d:%02d", sign, seconds/3600, (seconds%3600)/60)
}

// Parse нормализует дату.
//
// Правила:
//   - только дата → полночь + локальное смещение
//   - суффикс Z → +00:00
//   - без смещения → локальное смещение
//   - полностью заданная дата сохраняет смещение и дробные секунды,
//     смещение приводится к виду ±HH:MM
//
// Для пустой или нераспознанной строки возвращает ("", false).
func (n *DateNormalizer) Parse(date string) (string, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return "", false
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format(zonedOutputLayout), true
		}
	}

	for _, layout := range naiveLayouts {
		t, err := time.Parse(layout, date)
		if err != nil {
			continue
		}
		zone := time.FixedZone("", n.offsetSeconds())
		local := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, zone)
		return local.Format(DateLayout), true
	}

	return "", false
}

// BuildRange нормализует обе границы.
//
// Возвращает false, если хотя бы одна граница не распознана.
// Порядок границ не проверяется (см. CheckRange).
func (n *DateNormalizer) BuildRange(start, end string) (DateRange, bool) {
	s, ok := n.Parse(start)
	if !ok {
		return DateRange{}, false
	}
	e, ok := n.Parse(end)
	if !ok {
		return DateRange{}, false
	}
	return DateRange{Start: s, End: e}, true
}

// CheckRange возвращает true, если start < end и start не в будущем.
func (n *DateNormalizer) CheckRange(r DateRange) bool {
	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return false
	}
	end, err := time.Parse(time.RFC3339, r.End)
	if err != nil {
		return false
	}
	if !start.Before(end) {
		return false
	}
	return !start.After(n.clock.Now())
}

// Timestamp возвращает Unix-время (секунды) нормализованной даты.
func (n *DateNormalizer) Timestamp(date string) (int64, bool) {
	normalized, ok := n.Parse(date)
	if !ok {
		return 0, false
	}
	t, err := time.Parse(DateLayout, normalized)
	if err != nil {
		return 0, false
	}
	return t.Unix(), true
}

var systemDates = NewDateNormalizer(SystemClock{})

// GetUTCOffset - UTCOffset по системной зоне.
func GetUTCOffset() string { return systemDates.UTCOffset() }

// ParseDate - Parse по системным часам.
func ParseDate(date string) (string, bool) { return systemDates.Parse(date) }

// BuildDateRange - BuildRange по системным часам.
func BuildDateRange(start, end string) (DateRange, bool) { return systemDates.BuildRange(start, end) }

// CheckDateRange - CheckRange по системным часам.
func CheckDateRange(r DateRange) bool { return systemDates.CheckRange(r) }

// DateToTimestamp - Timestamp по системным часам.
func DateToTimestamp(date string) (int64, bool) { return systemDates.Timestamp(date) }

// Типы дат для фильтра заказов.
const (
	DateTypeCreation = "Creation"
	DateTypePayment  = "Payment"
	DateTypeChange   = "Change"
	DateTypeDelivery = "Delivery"
)

// dateTypeParams - тип даты → префикс параметров From/To.
var dateTypeParams = map[string]string{
	DateTypeCreation: "createdAt",
	DateTypePayment:  "paidAt",
	DateTypeChange:   "updatedAt",
	DateTypeDelivery: "outgoingItemsBookedAt",
}

// BuildQueryDate превращает диапазон дат в пару query-параметров.
//
// Пример для Creation: createdAtFrom=...&createdAtTo=...
// Неизвестный тип или пустой диапазон дают пустой url.Values.
func BuildQueryDate(r DateRange, dateType string) url.Values {
	query := url.Values{}
	prefix, ok := dateTypeParams[dateType]
	if !ok || r.IsZero() {
		return query
	}
	query.Set(prefix+"From", r.Start)
	query.Set(prefix+"To", r.End)
	return query
}
