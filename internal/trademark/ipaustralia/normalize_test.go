package ipaustralia

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// record builds a map the way the HTTP client sees it: through the JSON
// decoder, so numbers arrive as float64 just like in production.
func record(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func TestExtractNiceClasses(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "top-level classes array",
			raw:  `{"classes": ["35", "9", "35", "7"]}`,
			want: []string{"7", "9", "35"},
		},
		{
			name: "numeric values without quotes",
			raw:  `{"niceClasses": [35, 9, 7]}`,
			want: []string{"7", "9", "35"},
		},
		{
			name: "non-numeric codes sort after numeric ones",
			raw:  `{"classifications": ["35", "abc", "7"]}`,
			want: []string{"7", "35", "abc"},
		},
		{
			name: "goodsAndServices object with nested classes",
			raw:  `{"goodsAndServices": {"classes": ["42", "9"]}}`,
			want: []string{"9", "42"},
		},
		{
			name: "goodsAndServices object with nested niceClasses",
			raw:  `{"goodsAndServices": {"niceClasses": ["25"]}}`,
			want: []string{"25"},
		},
		{
			name: "goodsAndServices as array of structured items",
			raw:  `{"goodsAndServices": [{"class": "35", "descriptionText": ["x"]}, {"class": "9"}]}`,
			want: []string{"9", "35"},
		},
		{
			name: "classificationList array",
			raw:  `{"classificationList": [{"classNumber": "16"}]}`,
			want: []string{"16"},
		},
		{
			name: "structured item key priority number over class",
			raw:  `{"classes": [{"number": "3", "class": "44"}]}`,
			want: []string{"3"},
		},
		{
			name: "structured item falls through empty keys",
			raw:  `{"classes": [{"number": "", "niceClass": "12"}]}`,
			want: []string{"12"},
		},
		{
			name: "duplicates across shapes are removed",
			raw:  `{"classes": ["9"], "niceClasses": ["9"], "goodsAndServices": [{"class": "9"}]}`,
			want: []string{"9"},
		},
		{
			name: "values are trimmed and empties dropped",
			raw:  `{"classes": [" 35 ", "", "  "]}`,
			want: []string{"35"},
		},
		{
			name: "negative-looking codes are not numeric",
			raw:  `{"classes": ["-5", "7"]}`,
			want: []string{"7", "-5"},
		},
		{
			name: "non-numeric ties keep insertion order",
			raw:  `{"classes": ["zzz", "aaa", "7"]}`,
			want: []string{"7", "zzz", "aaa"},
		},
		{
			name: "absent data yields empty",
			raw:  `{"words": "Acme"}`,
			want: []string{},
		},
		{
			name: "malformed shapes yield empty",
			raw:  `{"classes": "not-a-list", "goodsAndServices": 42, "classificationList": {"number": "9"}}`,
			want: []string{},
		},
		{
			name: "structured item with no known key is skipped",
			raw:  `{"classes": [{"unexpected": "35"}, "7"]}`,
			want: []string{"7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractNiceClasses(record(t, tt.raw))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstNonEmpty_Words(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "primary key wins",
			raw:  `{"words": "Acme Brew", "name": "Other"}`,
			want: "Acme Brew",
		},
		{
			name: "falls through empty values",
			raw:  `{"words": "", "tradeMarkWords": null, "markText": "Acme"}`,
			want: "Acme",
		},
		{
			name: "last candidate key",
			raw:  `{"tradeMarkName": "Acme"}`,
			want: "Acme",
		},
		{
			name: "nothing recognized",
			raw:  `{"somethingElse": "Acme"}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstNonEmpty(record(t, tt.raw), wordKeys))
		})
	}
}

func TestFirstNonEmpty_Status(t *testing.T) {
	rec := record(t, `{"status": "Registered", "statusGroup": "REGISTERED"}`)

	// statusGroup is probed before status
	assert.Equal(t, "REGISTERED", firstNonEmpty(rec, statusKeys))
}

func TestStringify_WholeNumbers(t *testing.T) {
	// JSON numbers decode to float64; whole values must not grow a ".0"
	assert.Equal(t, "9", stringify(float64(9)))
	assert.Equal(t, "9.5", stringify(9.5))
	assert.Equal(t, "", stringify(nil))
	assert.Equal(t, "x", stringify("x"))
}
