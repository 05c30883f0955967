package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Local is the local-filesystem driver.
type Local struct {
	root    string
	baseURL string
}

// NewLocal roots a disk at root (made absolute against the working directory)
// whose files are publicly reachable under baseURL.
func NewLocal(root, baseURL string) (*Local, error) {
	if !filepath.IsAbs(root) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("storage/local: getwd: %w", err)
		}
		root = filepath.Join(cwd, root)
	}
	return &Local{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (d *Local) abs(key string) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.root, filepath.FromSlash(k)), nil
}

func (d *Local) Put(_ context.Context, key string, r io.Reader, _ string) error {
	full, err := d.abs(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("storage/local: create %s: %w", key, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("storage/local: write %s: %w", key, err)
	}
	return nil
}

func (d *Local) Exists(_ context.Context, key string) bool {
	full, err := d.abs(key)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

func (d *Local) Delete(_ context.Context, key string) error {
	full, err := d.abs(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: delete %s: %w", key, err)
	}
	return nil
}

func (d *Local) URL(key string) string {
	k, _ := cleanKey(key)
	return d.baseURL + "/" + k
}

// Handler serves the disk's files read-only. Mount it with the URL prefix
// stripped, e.g. http.StripPrefix("/storage", disk.Handler()).
func (d *Local) Handler() http.Handler {
	return http.FileServer(http.Dir(d.root))
}
