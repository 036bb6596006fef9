package models

import (
	"fmt"
	"regexp"
)

var (
	resourceTypePattern = regexp.MustCompile(`^(.+?)\[`)
	resourceIDPattern   = regexp.MustCompile(`^(.+?)\[(.+)\]$`)
)

// ParseError is a single report item that could not be interpreted. It is
// reported and the item is left out; it never stops an analysis.
type ParseError struct {
	Source string
	Item   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("cannot parse %s: %s", e.Item, e.Reason)
	}
	return fmt.Sprintf("%s: cannot parse %s: %s", e.Source, e.Item, e.Reason)
}

// ResourceType extracts the type from an identifier such as "Package[nginx]".
func ResourceType(id string) (string, error) {
	match := resourceTypePattern.FindStringSubmatch(id)
	if match == nil {
		return "", &ParseError{Item: fmt.Sprintf("type %s", id), Reason: "expected Type[title]"}
	}
	return match[1], nil
}

// ParseResourceID splits an identifier into its type and title.
func ParseResourceID(id string) (string, string, error) {
	match := resourceIDPattern.FindStringSubmatch(id)
	if match == nil {
		return "", "", &ParseError{Item: fmt.Sprintf("resource %s", id), Reason: "expected Type[title]"}
	}
	return match[1], match[2], nil
}
