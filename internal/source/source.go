package source

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceUnit is one reviewable file produced by a walk.
type SourceUnit struct {
	// Repo-relative path using forward slashes (e.g., "src/app.go").
	Path string
	// Full file text.
	Content string
	// Size of Content in bytes; what the batch planner budgets against.
	Size int
}

// Rules control which directory entries a walk skips. An entry is skipped
// when its base name starts with any prefix, ends with any suffix, or
// equals any name exactly.
type Rules struct {
	Prefixes []string
	Suffixes []string
	Names    []string
}

// DefaultRules mirrors the reviewer's standard ignore set: hidden entries,
// docs/locks/logs, and common dependency or output directories.
func DefaultRules() Rules {
	return Rules{
		Prefixes: []string{"."},
		Suffixes: []string{".ipynb", ".md", ".log", ".lock"},
		Names:    []string{"venv", "__pycache__", "logs", "node_modules", "vendor", "target", "build", "dist"},
	}
}

// Merge returns a copy of r with extra entries appended.
func (r Rules) Merge(prefixes, suffixes, names []string) Rules {
	out := Rules{
		Prefixes: append(append([]string{}, r.Prefixes...), prefixes...),
		Suffixes: append(append([]string{}, r.Suffixes...), suffixes...),
		Names:    append(append([]string{}, r.Names...), names...),
	}
	return out
}

// Skip reports whether a base name is excluded by the rules.
func (r Rules) Skip(name string) bool {
	for _, p := range r.Prefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return true
		}
	}
	for _, s := range r.Suffixes {
		if s != "" && strings.HasSuffix(name, s) {
			return true
		}
	}
	for _, n := range r.Names {
		if name == n {
			return true
		}
	}
	return false
}

// Collect walks root and returns the ordered source units plus a rendered
// directory tree. Entries at each level are visited files-first, each group
// sorted by name, so the order is stable across runs. Unreadable files are
// logged and left out of the result.
func Collect(root string, rules Rules) ([]SourceUnit, string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, "", err
	}
	var units []SourceUnit
	tree, err := walk(abs, abs, "", rules, &units)
	if err != nil {
		return nil, "", err
	}
	return units, tree, nil
}

func walk(root, dir, prefix string, rules Rules, units *[]SourceUnit) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(entries))
	isDir := make(map[string]bool, len(entries))
	for _, e := range entries {
		if rules.Skip(e.Name()) {
			continue
		}
		names = append(names, e.Name())
		isDir[e.Name()] = e.IsDir()
	}
	// Files before directories, each group alphabetical.
	sort.Slice(names, func(i, j int) bool {
		di, dj := isDir[names[i]], isDir[names[j]]
		if di != dj {
			return !di
		}
		return names[i] < names[j]
	})

	var b strings.Builder
	for i, name := range names {
		last := i == len(names)-1
		branch, childPrefix := "├─── ", prefix+"│    "
		if last {
			branch, childPrefix = "└─── ", prefix+"     "
		}
		full := filepath.Join(dir, name)
		if isDir[name] {
			b.WriteString(prefix + branch + name + "/\n")
			sub, err := walk(root, full, childPrefix, rules, units)
			if err != nil {
				return "", err
			}
			b.WriteString(sub)
			continue
		}
		b.WriteString(prefix + branch + name + "\n")
		rel, _ := filepath.Rel(root, full)
		rel = filepath.ToSlash(rel)
		data, err := os.ReadFile(full)
		if err != nil {
			log.Printf("source: can not read file %s: %v", rel, err)
			continue
		}
		content := string(data)
		*units = append(*units, SourceUnit{Path: rel, Content: content, Size: len(content)})
	}
	return b.String(), nil
}
