// Package testutil holds filesystem fixtures and polling helpers shared by
// package tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// PluginBundle is a small plugin tree shaped like the bundled
// ftrack-connect directory.
var PluginBundle = map[string]string{
	"boilerplate/hook/action.py":        "# boilerplate action\n",
	"export-gantt-chart/hook/action.py": "# gantt chart action\n",
	"open-asset-file/hook/action.py":    "# open asset file action\n",
	"README.txt":                        "ftrack connect plugins\n",
}

// BundleFixture lays out a source bundle and an empty (non-existent)
// destination under a temp dir and returns both paths.
type BundleFixture struct {
	Root   string
	Source string
	Dest   string
}

// NewBundleFixture writes files under <tmp>/ftrack-connect. Dest is
// <tmp>/home/AppData/Local/ftrack/ftrack-connect-plugins and is not created.
func NewBundleFixture(t *testing.T, files map[string]string) *BundleFixture {
	t.Helper()
	root := t.TempDir()
	f := &BundleFixture{
		Root:   root,
		Source: filepath.Join(root, "ftrack-connect"),
		Dest:   filepath.Join(root, "home", "AppData", "Local", "ftrack", "ftrack-connect-plugins"),
	}
	WriteTree(t, f.Source, files)
	return f
}

// WriteTree creates files (slash path -> content) under root.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// ReadTree returns every regular file under root keyed by slash path.
// A missing root yields an empty map.
func ReadTree(t *testing.T, root string) map[string]string {
	t.Helper()
	got := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		got[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return got
}
