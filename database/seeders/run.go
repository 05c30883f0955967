// Package seeders fills a fresh store with the records a new deployment
// needs. Seeders register themselves from init() and run in registration
// order:
//
//	dinehub seed          # admin account only
//	dinehub seed --demo   # admin plus a sample menu
package seeders

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/dinehub/internal/kernel"
)

// SeederFunc seeds through the booted kernel's services, so it works the
// same against every store driver.
type SeederFunc func(ctx context.Context, k *kernel.Kernel, out io.Writer) error

type entry struct {
	name string
	demo bool
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []entry
)

// Register adds a seeder that always runs.
func Register(name string, fn SeederFunc) { add(entry{name: name, fn: fn}) }

// RegisterDemo adds a seeder that only runs with demo data requested.
func RegisterDemo(name string, fn SeederFunc) { add(entry{name: name, demo: true, fn: fn}) }

func add(e entry) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, e)
}

// RunAll executes the registered seeders and stops at the first error.
func RunAll(ctx context.Context, k *kernel.Kernel, demo bool, out io.Writer) error {
	mu.Lock()
	current := append([]entry(nil), entries...)
	mu.Unlock()

	for _, e := range current {
		if e.demo && !demo {
			continue
		}
		fmt.Fprintf(out, "  • %s … ", e.name)
		if err := e.fn(ctx, k, out); err != nil {
			fmt.Fprintln(out, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(out, "done")
	}
	return nil
}
