package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// Vars is the variable scope of one flow run.
type Vars map[string]string

// expand replaces every {{name}} in s with its value.
func (v Vars) expand(s string) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	for k, val := range v {
		s = strings.ReplaceAll(s, "{{"+k+"}}", val)
	}
	return s
}

// ─── Public API ───────────────────────────────────────────────────────────────

// Run executes the flow file at path against handler as one subtest.
// vars seeds the variable scope and may be nil.
func Run(t *testing.T, handler http.Handler, path string, vars Vars) {
	t.Helper()

	f, err := LoadFlow(path)
	if err != nil {
		t.Fatalf("%v", err)
	}
	t.Run(f.Name, func(t *testing.T) {
		RunFlow(t, handler, f, vars)
	})
}

// RunDir runs every flow in dir. newHandler is called once per flow so flows
// never share state.
func RunDir(t *testing.T, dir string, newHandler func(t *testing.T) (http.Handler, Vars)) {
	t.Helper()

	flows, errs := LoadDir(dir)
	for _, err := range errs {
		t.Errorf("%v", err)
	}
	for _, f := range flows {
		t.Run(f.Name, func(t *testing.T) {
			h, vars := newHandler(t)
			RunFlow(t, h, f, vars)
		})
	}
}

// RunFlow executes the steps of f in order and stops at the first step whose
// status code does not match.
func RunFlow(t *testing.T, handler http.Handler, f *Flow, vars Vars) {
	t.Helper()

	scope := Vars{}
	for k, v := range vars {
		scope[k] = v
	}

	for _, s := range f.Steps {
		if !runStep(t, handler, s, scope) {
			return
		}
	}
}

// ─── Internal execution ───────────────────────────────────────────────────────

func runStep(t *testing.T, handler http.Handler, s Step, vars Vars) bool {
	t.Helper()

	var body io.Reader
	if len(s.Body) > 0 {
		body = strings.NewReader(vars.expand(string(s.Body)))
	}

	req := httptest.NewRequest(strings.ToUpper(s.Method), vars.expand(s.URL), body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, vars.expand(v))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !AssertStatusCode(t, s, rec.Code, rec.Body.Bytes()) {
		return false
	}

	var doc any
	if len(bytes.TrimSpace(rec.Body.Bytes())) > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
			t.Errorf("[%s] response is not JSON: %v\nbody: %s", s.Name, err, rec.Body.String())
			return false
		}
	}

	AssertPaths(t, s, doc, vars)
	saveVars(t, s, doc, vars)
	return true
}

func saveVars(t *testing.T, s Step, doc any, vars Vars) {
	t.Helper()

	for name, path := range s.Save {
		v, ok := Lookup(doc, path)
		if !ok {
			t.Errorf("[%s] save %q: path %q not found", s.Name, name, path)
			continue
		}
		switch val := v.(type) {
		case string:
			vars[name] = val
		default:
			raw, _ := json.Marshal(val)
			vars[name] = string(raw)
		}
	}
}
