package ipaustralia

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// The registry's detail records vary by vintage and endpoint version, so
// field extraction is a prioritized probe over the shapes seen in the wild
// rather than a single assumed schema.

// wordKeys are the candidate fields for a mark's textual content, in
// probe order.
var wordKeys = []string{
	"words",
	"tradeMarkWords",
	"markText",
	"text",
	"name",
	"tradeMarkName",
}

// statusKeys are the candidate fields for a mark's registration status, in
// probe order.
var statusKeys = []string{
	"statusGroup",
	"statusCode",
	"statusDetail",
	"status",
	"tradeMarkStatus",
	"state",
	"ipRightStatus",
}

// classNumberKeys are the candidate keys holding a class number inside a
// structured classification item, in probe order.
var classNumberKeys = []string{
	"number",
	"classNumber",
	"niceClass",
	"class",
	"classId",
}

// nonNumericSortKey orders non-numeric class codes after all 45 numeric ones.
const nonNumericSortKey = 999

// firstNonEmpty probes the record for the given keys and returns the first
// value that stringifies to something non-empty.
func firstNonEmpty(record map[string]interface{}, keys []string) string {
	for _, key := range keys {
		if v, ok := record[key]; ok {
			if s := stringify(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// extractNiceClasses collects classification codes from every known record
// shape: top-level arrays ("classes", "niceClasses", "classifications"), a
// nested goodsAndServices object or array, and "classificationList".
// Absent or malformed data yields an empty slice; this never fails.
func extractNiceClasses(record map[string]interface{}) []string {
	var candidates []interface{}

	appendList := func(v interface{}) {
		if list, ok := v.([]interface{}); ok {
			candidates = append(candidates, list...)
		}
	}

	appendList(record["classes"])
	appendList(record["niceClasses"])
	appendList(record["classifications"])

	switch gs := record["goodsAndServices"].(type) {
	case map[string]interface{}:
		appendList(gs["classes"])
		appendList(gs["niceClasses"])
	case []interface{}:
		// Detail shape: array of { class: "35", descriptionText: [...] }
		candidates = append(candidates, gs...)
	}

	appendList(record["classificationList"])

	numbers := []string{}
	for _, c := range candidates {
		var raw interface{}
		if item, ok := c.(map[string]interface{}); ok {
			for _, key := range classNumberKeys {
				if v, ok := item[key]; ok && stringify(v) != "" {
					raw = v
					break
				}
			}
		} else {
			raw = c
		}

		if s := strings.TrimSpace(stringify(raw)); s != "" {
			numbers = append(numbers, s)
		}
	}

	return sortClassCodes(dedupe(numbers))
}

// dedupe removes duplicates preserving first-occurrence order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// sortClassCodes sorts numeric codes ascending with non-numeric codes after
// them; ties between non-numeric codes keep insertion order.
func sortClassCodes(codes []string) []string {
	sort.SliceStable(codes, func(i, j int) bool {
		return classSortKey(codes[i]) < classSortKey(codes[j])
	})
	return codes
}

func classSortKey(code string) int {
	if !isDigits(code) {
		return nonNumericSortKey
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return nonNumericSortKey
	}
	return n
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// stringify renders a decoded JSON value the way it appeared on the wire:
// whole-number floats without a trailing ".0", nil as empty.
func stringify(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
