package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func TestCollectOrderFilesBeforeDirs(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"zeta.go":       "package zeta",
		"alpha.go":      "package alpha",
		"pkg/inner.go":  "package pkg",
		"pkg/b/deep.go": "package b",
	})

	units, _, err := Collect(dir, DefaultRules())
	require.NoError(t, err)

	var paths []string
	for _, u := range units {
		paths = append(paths, u.Path)
	}
	assert.Equal(t, []string{"alpha.go", "zeta.go", "pkg/inner.go", "pkg/b/deep.go"}, paths)
}

func TestCollectStableAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.go":     "b",
		"a.go":     "a",
		"sub/c.go": "c",
	})

	first, tree1, err := Collect(dir, DefaultRules())
	require.NoError(t, err)
	second, tree2, err := Collect(dir, DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, tree1, tree2)
}

func TestCollectAppliesRules(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.go":             "package main",
		"README.md":           "docs",
		".hidden":             "secret",
		"app.log":             "log",
		"venv/lib.py":         "lib",
		"node_modules/x.js":   "x",
		"src/ok.go":           "ok",
		"src/__pycache__/c.p": "cache",
	})

	units, _, err := Collect(dir, DefaultRules())
	require.NoError(t, err)

	var paths []string
	for _, u := range units {
		paths = append(paths, u.Path)
	}
	assert.Equal(t, []string{"main.go", "src/ok.go"}, paths)
}

func TestCollectUnitSizes(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.go": "hello world"})

	units, _, err := Collect(dir, DefaultRules())
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "hello world", units[0].Content)
	assert.Equal(t, len("hello world"), units[0].Size)
}

func TestTreeRendering(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.go":     "a",
		"sub/b.go": "b",
	})

	_, tree, err := Collect(dir, DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, "├─── a.go\n└─── sub/\n     └─── b.go\n", tree)
}

func TestRulesMergeDoesNotMutateReceiver(t *testing.T) {
	base := DefaultRules()
	merged := base.Merge(nil, nil, []string{"extra"})

	assert.True(t, merged.Skip("extra"))
	assert.False(t, base.Skip("extra"))
}

func TestRulesSkip(t *testing.T) {
	r := Rules{Prefixes: []string{"."}, Suffixes: []string{".md"}, Names: []string{"venv"}}

	assert.True(t, r.Skip(".git"))
	assert.True(t, r.Skip("README.md"))
	assert.True(t, r.Skip("venv"))
	assert.False(t, r.Skip("main.go"))
}
