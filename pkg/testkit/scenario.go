// Package testkit runs JSON-described API flows against an http.Handler.
//
// A flow is an ordered list of steps sharing one variable scope, so a token
// or id captured from one response can be used by the next request:
//
//	{
//	  "name": "customer orders a dish",
//	  "steps": [
//	    {"name": "login", "method": "POST", "url": "/api/users/login",
//	     "body": {"email": "ann@example.com", "password": "secret1"},
//	     "expectedCode": 200, "save": {"token": "data.token"}},
//	    {"name": "order", "method": "POST", "url": "/api/orders",
//	     "headers": {"Authorization": "Bearer {{token}}"},
//	     "body": {"items": [{"name": "Soup", "price": 4.5}]},
//	     "expectedCode": 201, "expect": {"data.total": 4.5}}
//	  ]
//	}
//
// Flow files live in testdata/ next to the _test.go that runs them.
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ─── Schema ───────────────────────────────────────────────────────────────────

// Flow is one named sequence of requests.
type Flow struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`
}

// Step is a single request and the assertions made on its response.
type Step struct {
	Name    string            `json:"name"`
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`

	// Body is sent as the JSON request body after {{var}} substitution.
	Body json.RawMessage `json:"body"`

	ExpectedCode int `json:"expectedCode"`

	// Expect maps a dotted path into the response ("data.items.0.name") to
	// its expected JSON value.
	Expect map[string]any `json:"expect"`

	// Absent lists paths that must not exist in the response.
	Absent []string `json:"absent"`

	// Save captures response values into variables for later steps.
	Save map[string]string `json:"save"`
}

// ─── Loading ──────────────────────────────────────────────────────────────────

// LoadFlow reads and validates a flow from a JSON file.
func LoadFlow(path string) (*Flow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", path, err)
	}

	var f Flow
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", path, err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid flow %q: %w", path, err)
	}
	return &f, nil
}

func (f *Flow) validate() error {
	if len(f.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	for i := range f.Steps {
		s := &f.Steps[i]
		if s.URL == "" {
			return fmt.Errorf("steps[%d].url is required", i)
		}
		if s.ExpectedCode == 0 {
			return fmt.Errorf("steps[%d].expectedCode is required", i)
		}
		if s.Method == "" {
			s.Method = "GET"
		}
		if s.Name == "" {
			s.Name = fmt.Sprintf("%02d %s %s", i, s.Method, s.URL)
		}
	}
	return nil
}

// LoadDir loads every *.json file in dir as a Flow.
// Files that fail to parse are collected as errors.
func LoadDir(dir string) ([]*Flow, []error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(entries) == 0 {
		return nil, []error{fmt.Errorf("testkit: no flow files found in %q", dir)}
	}

	var (
		flows []*Flow
		errs  []error
	)
	for _, path := range entries {
		f, err := LoadFlow(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		flows = append(flows, f)
	}
	return flows, errs
}
