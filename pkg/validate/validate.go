// Package validate checks request payloads against `validate` struct tags.
//
// Rules are comma-separated and run in order; the first failing rule wins:
//
//	required     not zero or blank
//	nullable     skip the remaining rules when the value is empty or nil
//	email        plausible email address
//	url          absolute http(s) URL
//	uuid         canonical UUID
//	min=N        strings: at least N characters; numbers: at least N
//	max=N        strings: at most N characters; numbers: at most N
//	gt=N         number greater than N
//	gte=N        number at least N
//	lte=N        number at most N
//	oneof=a|b    one of the listed values, ignoring case
//
// Pointer fields are dereferenced first, so a PATCH payload can declare
// `Price *float64 validate:"nullable,gte=0"`. Packages may add rules with
// Register.
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Rule checks v (already dereferenced) and returns a message, or "" when
// the value passes. param is the text after "=" in the tag.
type Rule func(field string, v reflect.Value, param string) string

var (
	rulesMu sync.RWMutex
	rules   = map[string]Rule{
		"email": pattern(regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`), "The %s must be a valid email address."),
		"uuid":  pattern(regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`), "The %s must be a valid UUID."),
		"url":   urlRule,
		"min":   sizeRule(func(n, limit float64) bool { return n >= limit }, "at least %s"),
		"max":   sizeRule(func(n, limit float64) bool { return n <= limit }, "at most %s"),
		"gt":    numberRule(func(n, limit float64) bool { return n > limit }, "greater than %s"),
		"gte":   numberRule(func(n, limit float64) bool { return n >= limit }, "greater than or equal to %s"),
		"lte":   numberRule(func(n, limit float64) bool { return n <= limit }, "less than or equal to %s"),
		"oneof": oneOf,
	}
)

// Register adds or replaces a named rule.
func Register(name string, r Rule) {
	rulesMu.Lock()
	defer rulesMu.Unlock()
	rules[name] = r
}

func lookup(name string) (Rule, bool) {
	rulesMu.RLock()
	defer rulesMu.RUnlock()
	r, ok := rules[name]
	return r, ok
}

// ─── Public API ───────────────────────────────────────────────────────────────

// Struct validates the tagged exported fields of v and returns a map of
// JSON field name to message. An empty map means v is valid.
func Struct(v any) map[string]string {
	errs := make(map[string]string)

	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		tag := sf.Tag.Get("validate")
		if tag == "" || !sf.IsExported() {
			continue
		}
		if msg := check(jsonName(sf), rv.Field(i), strings.Split(tag, ",")); msg != "" {
			errs[jsonName(sf)] = msg
		}
	}
	return errs
}

// HasErrors reports whether errs holds any message.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func check(field string, v reflect.Value, tags []string) string {
	empty := isEmpty(v)
	for _, t := range tags {
		if strings.TrimSpace(t) == "nullable" && empty {
			return ""
		}
	}

	for _, t := range tags {
		name, param, _ := strings.Cut(strings.TrimSpace(t), "=")
		switch name {
		case "", "nullable":
			continue
		case "required":
			if empty {
				return fmt.Sprintf("The %s field is required.", field)
			}
			continue
		}

		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return ""
			}
			v = v.Elem()
		}

		r, ok := lookup(name)
		if !ok {
			panic(fmt.Sprintf("validate: unknown rule %q on field %s", name, field))
		}
		if msg := r(field, v, param); msg != "" {
			return msg
		}
	}
	return ""
}

// ─── Rules ───────────────────────────────────────────────────────────────────

func pattern(re *regexp.Regexp, msg string) Rule {
	return func(field string, v reflect.Value, _ string) string {
		if !re.MatchString(text(v)) {
			return fmt.Sprintf(msg, field)
		}
		return ""
	}
}

func urlRule(field string, v reflect.Value, _ string) string {
	u, err := url.ParseRequestURI(text(v))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Sprintf("The %s must be a valid URL.", field)
	}
	return ""
}

// sizeRule compares string length in runes, or the value itself for numbers.
func sizeRule(ok func(n, limit float64) bool, phrase string) Rule {
	return func(field string, v reflect.Value, param string) string {
		limit := parseFloat(param)
		if isNumber(v) {
			if !ok(number(v), limit) {
				return fmt.Sprintf("The %s must be "+phrase+".", field, param)
			}
			return ""
		}
		if !ok(float64(len([]rune(text(v)))), limit) {
			return fmt.Sprintf("The %s must be "+phrase+" characters.", field, param)
		}
		return ""
	}
}

func numberRule(ok func(n, limit float64) bool, phrase string) Rule {
	return func(field string, v reflect.Value, param string) string {
		if !ok(number(v), parseFloat(param)) {
			return fmt.Sprintf("The %s must be "+phrase+".", field, param)
		}
		return ""
	}
}

func oneOf(field string, v reflect.Value, param string) string {
	got := strings.TrimSpace(text(v))
	for _, opt := range strings.Split(param, "|") {
		if strings.EqualFold(got, strings.TrimSpace(opt)) {
			return ""
		}
	}
	return fmt.Sprintf("The selected %s is invalid.", field)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Bool:
		return false
	}
	return isNumber(v) && number(v) == 0
}

func isNumber(v reflect.Value) bool {
	return v.CanInt() || v.CanUint() || v.CanFloat()
}

func number(v reflect.Value) float64 {
	switch {
	case v.CanInt():
		return float64(v.Int())
	case v.CanUint():
		return float64(v.Uint())
	case v.CanFloat():
		return v.Float()
	}
	return parseFloat(text(v))
}

func text(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprint(v.Interface())
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	return name
}
