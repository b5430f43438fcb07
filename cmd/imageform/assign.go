package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/darim/imageform/pkg/model"
	"github.com/darim/imageform/pkg/renderers/tui"
)

// splitAssignment parses "id=value".
func splitAssignment(raw string) (string, string, error) {
	id, value, ok := strings.Cut(raw, "=")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return "", "", fmt.Errorf("expected id=value, got %q", raw)
	}
	return id, value, nil
}

// parseFileAssignments collects repeated --file id=path flags. One flag may
// list several comma separated paths.
func parseFileAssignments(raw []string) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, item := range raw {
		id, value, err := splitAssignment(item)
		if err != nil {
			return nil, fmt.Errorf("--file: %w", err)
		}
		paths := tui.SplitPaths(value)
		if len(paths) == 0 {
			return nil, fmt.Errorf("--file: %s has no path", id)
		}
		out[id] = append(out[id], paths...)
	}
	return out, nil
}

// parseValueAssignments collects --value id=text flags. Each id may be set
// once.
func parseValueAssignments(raw []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, item := range raw {
		id, value, err := splitAssignment(item)
		if err != nil {
			return nil, fmt.Errorf("--value: %w", err)
		}
		if _, dup := out[id]; dup {
			return nil, fmt.Errorf("--value: %s set more than once", id)
		}
		out[id] = value
	}
	return out, nil
}

// checkAssignments rejects ids the form does not declare or that are
// assigned with the wrong kind of flag.
func checkAssignments(form model.Form, files map[string][]string, values map[string]string) error {
	var problems []string
	for id := range files {
		switch kind, ok := form.Fields[id]; {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s: not a field of %s", id, form.Name))
		case kind != model.FieldKindFiles:
			problems = append(problems, fmt.Sprintf("%s: takes --value, not --file", id))
		}
	}
	for id := range values {
		switch kind, ok := form.Fields[id]; {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s: not a field of %s", id, form.Name))
		case kind != model.FieldKindValue:
			problems = append(problems, fmt.Sprintf("%s: takes --file, not --value", id))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("invalid fields:\n  %s", strings.Join(problems, "\n  "))
}
