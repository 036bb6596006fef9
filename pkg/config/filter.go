package config

import (
	"path"
	"strings"

	"github.com/ppiankov/puppetspectre/internal/models"
	"k8s.io/apimachinery/pkg/util/sets"
)

// FilterMode selects how slow-filter patterns are compared with resources.
type FilterMode string

const (
	// FilterSubstring keeps a resource when its identifier contains a pattern.
	// "Package" therefore also keeps "File[/var/cache/Packages]".
	FilterSubstring FilterMode = "substring"
	// FilterExact keeps a resource when its type equals a pattern, ignoring case.
	FilterExact FilterMode = "exact"
	// FilterGlob keeps a resource when its type matches a glob pattern, ignoring case.
	FilterGlob FilterMode = "glob"
)

// Valid reports whether m is a known filter mode.
func (m FilterMode) Valid() bool {
	switch m {
	case FilterSubstring, FilterExact, FilterGlob:
		return true
	}
	return false
}

// TypeFilter restricts ranked resources to certain types.
type TypeFilter struct {
	Patterns []string
	Mode     FilterMode
}

// ParseTypeFilter builds a filter from a comma separated list.
func ParseTypeFilter(csv string, mode FilterMode) TypeFilter {
	f := TypeFilter{Patterns: strings.Split(csv, ","), Mode: mode}
	f.Normalize()
	return f
}

// Normalize trims patterns, drops empty and duplicate ones and defaults the mode.
func (f *TypeFilter) Normalize() {
	if f == nil {
		return
	}
	if f.Mode == "" {
		f.Mode = FilterSubstring
	}
	f.Mode = FilterMode(strings.ToLower(strings.TrimSpace(string(f.Mode))))

	seen := sets.New[string]()
	patterns := make([]string, 0, len(f.Patterns))
	for _, pattern := range normalizeList(f.Patterns) {
		if seen.Has(pattern) {
			continue
		}
		seen.Insert(pattern)
		patterns = append(patterns, pattern)
	}
	f.Patterns = patterns
}

// Empty reports whether the filter keeps every resource.
func (f TypeFilter) Empty() bool {
	return len(f.Patterns) == 0
}

// Matches reports whether the resource identifier passes the filter.
func (f TypeFilter) Matches(resourceID string) bool {
	if f.Empty() {
		return true
	}

	if f.Mode == FilterSubstring || f.Mode == "" {
		for _, pattern := range f.Patterns {
			if strings.Contains(resourceID, pattern) {
				return true
			}
		}
		return false
	}

	resourceType, err := models.ResourceType(resourceID)
	if err != nil {
		return false
	}

	for _, pattern := range f.Patterns {
		if f.Mode == FilterExact && strings.EqualFold(pattern, resourceType) {
			return true
		}
		if f.Mode == FilterGlob && patternMatches(pattern, resourceType) {
			return true
		}
	}
	return false
}

func normalizePattern(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func patternMatches(pattern, value string) bool {
	normalizedPattern := normalizePattern(pattern)
	normalizedValue := normalizePattern(value)
	if normalizedPattern == "" || normalizedValue == "" {
		return false
	}

	// Invalid glob patterns are treated as exact matches.
	matched, err := path.Match(normalizedPattern, normalizedValue)
	if err == nil {
		return matched
	}
	return normalizedPattern == normalizedValue
}
