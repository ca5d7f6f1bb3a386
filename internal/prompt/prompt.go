package prompt

import (
	"strings"

	"reviewer/internal/source"
)

const markerRun = "------------------------------" // 30 dashes, as in the file delimiters

// FileSection renders one source file with its delimiter line, the structure
// the detail prompt tells the model to echo back.
func FileSection(path, content string) string {
	return markerRun + " " + path + " " + markerRun + "\n" + content + "\n"
}

// DetailRequest assembles the single request for one batch: the system
// prompt followed by every file in the batch, each under its delimiter.
func DetailRequest(system string, units []source.SourceUnit) string {
	var b strings.Builder
	b.WriteString(system)
	b.WriteString("\n\n")
	for _, u := range units {
		b.WriteString(FileSection(u.Path, u.Content))
	}
	return b.String()
}

// ShortRequest assembles the per-file reduction request.
func ShortRequest(system, path, analysis string) string {
	var b strings.Builder
	b.WriteString(system)
	b.WriteString("\n\n")
	b.WriteString(FileSection(path, analysis))
	return b.String()
}

// ProjectRequest assembles a synthesis request over a group of analyses.
func ProjectRequest(system string, parts []string) string {
	var b strings.Builder
	b.WriteString(system)
	b.WriteString("\n\n")
	for _, p := range parts {
		b.WriteString(p)
		b.WriteString("\n\n")
	}
	return b.String()
}

// Attribute splits a detail response back into per-path critiques by the
// delimiter lines, and reports which of the requested paths the response
// did not cover. Text before the first delimiter and sections for paths
// that were never requested are discarded.
func Attribute(response string, paths []string) (found map[string]string, missing []string) {
	requested := make(map[string]bool, len(paths))
	for _, p := range paths {
		requested[p] = true
	}
	found = make(map[string]string)

	var current string
	var section strings.Builder
	flush := func() {
		if current == "" {
			return
		}
		found[current] = strings.TrimSpace(section.String())
		section.Reset()
		current = ""
	}
	for _, line := range strings.Split(response, "\n") {
		if path, ok := delimiterPath(line); ok {
			flush()
			if requested[path] {
				current = path
			}
			continue
		}
		if current != "" {
			section.WriteString(line)
			section.WriteString("\n")
		}
	}
	flush()

	for _, p := range paths {
		if text, ok := found[p]; !ok || text == "" {
			delete(found, p)
			missing = append(missing, p)
		}
	}
	return found, missing
}

// delimiterPath extracts the path from a delimiter line. Models tend to
// vary the dash count, so any run of 4+ dashes on both sides is accepted.
func delimiterPath(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "----") {
		return "", false
	}
	trimmed := strings.Trim(line, "-")
	path := strings.TrimSpace(trimmed)
	if path == "" || strings.ContainsAny(path, " \t") {
		return "", false
	}
	if !strings.HasSuffix(line, "----") {
		return "", false
	}
	return path, true
}
