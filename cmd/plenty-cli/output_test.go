package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkoid/plenty-api/pkg/plenty"
)

func TestPrintHuman_VAT(t *testing.T) {
	var buf bytes.Buffer
	result := map[string]plenty.VATConfig{
		"2": {Config: []string{"2", "3"}, TaxID: "GB12345678910"},
		"1": {Config: []string{"1", "5"}, TaxID: "DE12345678910"},
	}

	printHuman(&buf, runSummary{Command: "vat", RunID: "run-1", Duration: 1500 * time.Millisecond, ExportKey: "exports/vat-run-1.json"}, result, true)
	out := buf.String()

	assert.Contains(t, out, "=== vat ===")
	assert.Contains(t, out, "Countries: 2")
	assert.Contains(t, out, "country 1 TaxId=DE12345678910 config=[1, 5]")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("country 1")), bytes.Index(buf.Bytes(), []byte("country 2")))
	assert.Contains(t, out, "Duration: 1s")
	assert.Contains(t, out, "Exported: exports/vat-run-1.json")
}

func TestPrintHuman_Attributes(t *testing.T) {
	var buf bytes.Buffer
	result := []plenty.Attribute{{
		ID: 1, BackendName: "color",
		Values: []plenty.AttributeValue{
			{ID: 1, BackendName: "red", LinkedVariations: []int{1234, 2345}},
			{ID: 3, BackendName: "yellow"},
		},
	}}

	printHuman(&buf, runSummary{Command: "attributes"}, result, true)
	out := buf.String()

	assert.Contains(t, out, "#1 color")
	assert.Contains(t, out, "value #1 red variations=[1234 2345]")
	assert.Contains(t, out, "value #3 yellow\n")
}

func TestPrintHuman_Records(t *testing.T) {
	var buf bytes.Buffer
	result := []map[string]any{{"id": 100, "typeId": 1, "addresses": []any{"x"}}}

	printHuman(&buf, runSummary{Command: "orders"}, result, true)
	assert.Contains(t, buf.String(), "#100 typeId=1")
	assert.NotContains(t, buf.String(), "addresses")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	err := printJSON(&buf, runSummary{Command: "prices", RunID: "r", Duration: 42 * time.Millisecond},
		[]plenty.ShrunkSalesPrice{{ID: 1, Type: "default"}})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "prices", decoded["command"])
	assert.EqualValues(t, 42, decoded["duration_ms"])
	assert.NotContains(t, decoded, "export_key")
	assert.Len(t, decoded["result"], 1)
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, &plenty.APIError{StatusCode: 401, Body: "unauthorized"}, true)
	assert.Contains(t, buf.String(), "Error: plenty api error: status 401")
	assert.Contains(t, buf.String(), plenty.ErrAuthFailed.HumanMessage())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "500ms", formatDuration(500*time.Millisecond))
	assert.Equal(t, "5s", formatDuration(5*time.Second))
	assert.Equal(t, "2m 5s", formatDuration(125*time.Second))
}
