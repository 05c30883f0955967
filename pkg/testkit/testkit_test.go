package testkit_test

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dinehub/pkg/testkit"
)

func TestLookup(t *testing.T) {
	var doc any
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"items":[{"name":"Soup"},{"name":"Tea"}]}}`), &doc))

	v, ok := testkit.Lookup(doc, "data.items.1.name")
	assert.True(t, ok)
	assert.Equal(t, "Tea", v)

	n, ok := testkit.Lookup(doc, "data.items.#")
	assert.True(t, ok)
	assert.Equal(t, 2.0, n)

	_, ok = testkit.Lookup(doc, "data.items.5")
	assert.False(t, ok)
	_, ok = testkit.Lookup(doc, "data.missing")
	assert.False(t, ok)
}

func TestLoadFlowValidates(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"name":"x","steps":[{"url":"/"}]}`), 0o644))
	_, err := testkit.LoadFlow(bad)
	assert.ErrorContains(t, err, "expectedCode")

	good := filepath.Join(dir, "echo_flow.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"steps":[{"url":"/","expectedCode":200}]}`), 0o644))
	f, err := testkit.LoadFlow(good)
	require.NoError(t, err)
	assert.Equal(t, "echo_flow", f.Name)
	assert.Equal(t, "GET", f.Steps[0].Method)
}

func TestRunFlowCarriesVariables(t *testing.T) {
	var seen []string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.Path+" "+r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/login":
			w.Write([]byte(`{"data":{"token":"abc","id":7}}`)) //nolint:errcheck
		default:
			w.Write([]byte(`{"data":{"ok":true}}`)) //nolint:errcheck
		}
	})

	f := &testkit.Flow{Name: "vars", Steps: []testkit.Step{
		{Name: "login", Method: "POST", URL: "/login", ExpectedCode: 200,
			Save: map[string]string{"token": "data.token", "id": "data.id"}},
		{Name: "use", Method: "GET", URL: "/things/{{id}}", ExpectedCode: 200,
			Headers: map[string]string{"Authorization": "Bearer {{token}}"},
			Expect:  map[string]any{"data.ok": true},
			Absent:  []string{"data.token"}},
	}}

	testkit.RunFlow(t, h, f, testkit.Vars{"unused": "x"})

	assert.Equal(t, []string{"/login ", "/things/7 Bearer abc"}, seen)
}

func TestAssertPathsExpandsVariables(t *testing.T) {
	var doc any
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"_id":"o-1","total":4.50}}`), &doc))

	step := testkit.Step{Name: "x", Expect: map[string]any{"data._id": "{{order}}", "data.total": 4.5}}
	testkit.AssertPaths(t, step, doc, testkit.Vars{"order": "o-1"})
}
