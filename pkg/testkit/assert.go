package testkit

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertStatusCode checks the response code and prints the body on mismatch.
func AssertStatusCode(t *testing.T, s Step, got int, body []byte) bool {
	t.Helper()
	return assert.Equal(t, s.ExpectedCode, got,
		"[%s] HTTP status code mismatch\nbody: %s", s.Name, string(body))
}

// AssertPaths checks every Expect and Absent entry of s against doc.
// String expectations go through {{var}} substitution. Values are compared
// after a JSON round trip, so 4.5 and 4.50 or {"a":1} in any key order
// compare equal.
func AssertPaths(t *testing.T, s Step, doc any, vars Vars) {
	t.Helper()

	for path, want := range s.Expect {
		if str, ok := want.(string); ok {
			want = vars.expand(str)
		}
		got, ok := Lookup(doc, path)
		if !assert.True(t, ok, "[%s] path %q not found in response", s.Name, path) {
			continue
		}
		assert.Equal(t, normalize(want), normalize(got), "[%s] %s", s.Name, path)
	}
	for _, path := range s.Absent {
		_, ok := Lookup(doc, path)
		assert.False(t, ok, "[%s] path %q should be absent", s.Name, path)
	}
}

// Lookup resolves a dotted path such as "data.items.0.name" in a decoded JSON
// document. "#" as the last segment yields the length of an array.
func Lookup(doc any, path string) (any, bool) {
	cur := doc
	if path == "" {
		return cur, true
	}

	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			if seg == "#" {
				cur = float64(len(node))
				continue
			}
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

func normalize(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}
