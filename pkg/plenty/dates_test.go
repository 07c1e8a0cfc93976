package plenty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// berlinClock - 1 октября 2020, летнее время (+02:00).
func berlinClock(t *testing.T) FixedClock {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	return FixedClock{T: time.Date(2020, 10, 1, 12, 0, 0, 0, time.UTC), Loc: loc}
}

func TestUTCOffset(t *testing.T) {
	n := NewDateNormalizer(berlinClock(t))
	assert.Equal(t, "+02:00", n.UTCOffset())

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	n = NewDateNormalizer(FixedClock{T: time.Date(2020, 10, 1, 12, 0, 0, 0, time.UTC), Loc: ny})
	assert.Equal(t, "-04:00", n.UTCOffset())

	kolkata := time.FixedZone("IST", 5*3600+30*60)
	n = NewDateNormalizer(FixedClock{T: time.Now(), Loc: kolkata})
	assert.Equal(t, "+05:30", n.UTCOffset())

	n = NewDateNormalizer(FixedClock{T: time.Now()})
	assert.Equal(t, "+00:00", n.UTCOffset())
}

func TestDateNormalizer_Parse(t *testing.T) {
	n := NewDateNormalizer(berlinClock(t))

	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"2020-09-14", "2020-09-14T00:00:00+02:00", true},
		{"14-09-2020", "2020-09-14T00:00:00+02:00", true},
		{"2020.09.14", "2020-09-14T00:00:00+02:00", true},
		{"2020-09-14T08:00Z", "2020-09-14T08:00:00+00:00", true},
		{"2020-09-14T08:00:00Z", "2020-09-14T08:00:00+00:00", true},
		{"2020-09-14T08:00", "2020-09-14T08:00:00+02:00", true},
		{"2020-09-14 08:00:15", "2020-09-14T08:00:15+02:00", true},
		{"2020-09-14T08:00:00+02:00", "2020-09-14T08:00:00+02:00", true},
		{"2020-09-14T08:00:00-05:00", "2020-09-14T08:00:00-05:00", true},
		{"2020-09-14T08:00:00+0200", "2020-09-14T08:00:00+02:00", true},
		{"2020-09-14T08:00:00+02", "2020-09-14T08:00:00+02:00", true},
		{"2020-09-14T08:00+0530", "2020-09-14T08:00:00+05:30", true},
		{"2020-09-14T08:00:00.123+02:00", "2020-09-14T08:00:00.123+02:00", true},
		{"2020-09-14T08:00:00.5Z", "2020-09-14T08:00:00.5+00:00", true},
		{"2020-09-14T08:00:00+2", "", false},
		{"abc", "", false},
		{"", "", false},
		{"2020-13-45", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := n.Parse(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestDateNormalizer_BuildRange(t *testing.T) {
	n := NewDateNormalizer(berlinClock(t))

	tests := []struct {
		name  string
		start string
		end   string
		want  DateRange
		ok    bool
	}{
		{
			name:  "bare dates",
			start: "2020-09-14", end: "2020-09-15",
			want: DateRange{Start: "2020-09-14T00:00:00+02:00", End: "2020-09-15T00:00:00+02:00"},
			ok:   true,
		},
		{
			name:  "end before start passes through",
			start: "2020-09-14", end: "2020-09-13",
			want: DateRange{Start: "2020-09-14T00:00:00+02:00", End: "2020-09-13T00:00:00+02:00"},
			ok:   true,
		},
		{
			name:  "utc suffix",
			start: "2020-09-14T08:00Z", end: "2020-09-14T09:00Z",
			want: DateRange{Start: "2020-09-14T08:00:00+00:00", End: "2020-09-14T09:00:00+00:00"},
			ok:   true,
		},
		{
			name:  "fully qualified",
			start: "2020-09-14T08:00:00+02:00", end: "2020-09-14T10:00:30+02:00",
			want: DateRange{Start: "2020-09-14T08:00:00+02:00", End: "2020-09-14T10:00:30+02:00"},
			ok:   true,
		},
		{name: "garbage", start: "abc", end: "def"},
		{name: "empty", start: "", end: ""},
		{name: "only end invalid", start: "2020-09-14", end: "def"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.BuildRange(tt.start, tt.end)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestDateNormalizer_CheckRange(t *testing.T) {
	n := NewDateNormalizer(berlinClock(t))

	tests := []struct {
		name string
		r    DateRange
		want bool
	}{
		{"normal", DateRange{"2020-09-14T08:00:00+02:00", "2020-09-15T08:00:00+02:00"}, true},
		{"end before start", DateRange{"2020-09-16T08:00:00+02:00", "2020-09-13T08:00:00+02:00"}, false},
		{"past", DateRange{"2019-09-16T08:00:00+02:00", "2019-10-13T08:00:00+02:00"}, true},
		{"future", DateRange{"2021-09-16T08:00:00+02:00", "2021-10-13T08:00:00+02:00"}, false},
		{"equal bounds", DateRange{"2020-09-14T08:00:00+02:00", "2020-09-14T08:00:00+02:00"}, false},
		{"unparseable", DateRange{"abc", "2020-09-15T08:00:00+02:00"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.CheckRange(tt.r))
		})
	}
}

func TestDateNormalizer_Timestamp(t *testing.T) {
	n := NewDateNormalizer(berlinClock(t))

	tests := []struct {
		input string
		want  int64
		ok    bool
	}{
		{"2020-08-01", 1596232800, true},
		{"2020-08-01T15:00", 1596286800, true},
		{"2020-08-01T15:00:00+02:00", 1596286800, true},
		{"2020-08-01T15:00:00.750+02:00", 1596286800, true},
		{"01-08-2020", 1596232800, true},
		{"2020.08.01", 1596232800, true},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := n.Timestamp(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestBuildQueryDate(t *testing.T) {
	r := DateRange{Start: "2020-09-14T08:00:00+02:00", End: "2020-09-14T10:00:30+02:00"}

	tests := []struct {
		name     string
		r        DateRange
		dateType string
		want     string
	}{
		{
			name: "creation", r: r, dateType: DateTypeCreation,
			want: "createdAtFrom=2020-09-14T08%3A00%3A00%2B02%3A00&createdAtTo=2020-09-14T10%3A00%3A30%2B02%3A00",
		},
		{
			name: "payment", r: r, dateType: DateTypePayment,
			want: "paidAtFrom=2020-09-14T08%3A00%3A00%2B02%3A00&paidAtTo=2020-09-14T10%3A00%3A30%2B02%3A00",
		},
		{
			name: "change", r: r, dateType: DateTypeChange,
			want: "updatedAtFrom=2020-09-14T08%3A00%3A00%2B02%3A00&updatedAtTo=2020-09-14T10%3A00%3A30%2B02%3A00",
		},
		{
			name: "delivery", r: r, dateType: DateTypeDelivery,
			want: "outgoingItemsBookedAtFrom=2020-09-14T08%3A00%3A00%2B02%3A00&outgoingItemsBookedAtTo=2020-09-14T10%3A00%3A30%2B02%3A00",
		},
		{name: "empty range", r: DateRange{}, dateType: DateTypeCreation, want: ""},
		{name: "empty type", r: r, dateType: "", want: ""},
		{name: "unknown type", r: r, dateType: "Shipping", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQueryDate(tt.r, tt.dateType).Encode())
		})
	}
}

func TestSystemClockWrappers(t *testing.T) {
	offset := GetUTCOffset()
	got, ok := ParseDate("2020-09-14")
	require.True(t, ok)
	assert.Equal(t, "2020-09-14T00:00:00"+offset, got)

	_, ok = BuildDateRange("abc", "2020-09-14")
	assert.False(t, ok)

	assert.False(t, CheckDateRange(DateRange{Start: "2999-01-01T00:00:00+00:00", End: "2999-01-02T00:00:00+00:00"}))

	_, ok = DateToTimestamp("")
	assert.False(t, ok)
}
