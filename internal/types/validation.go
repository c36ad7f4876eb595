package types

import (
	"fmt"
	"strings"
)

// ValidateIDPresent returns an error when id is blank.
func ValidateIDPresent(id, field string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// ValidateIndexName checks the rules the server applies to a concrete index
// name: lowercase, at most 255 bytes, no leading '-', '_' or '+', not "." or
// "..", and none of \ / * ? " < > | , # or space.
func ValidateIndexName(name string) error {
	if name == "" {
		return fmt.Errorf("index is required")
	}
	if len(name) > 255 {
		return fmt.Errorf("index %q longer than 255 bytes", name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("index %q is reserved", name)
	}
	if strings.ContainsAny(name[:1], "-_+") {
		return fmt.Errorf("index %q must not start with '-', '_' or '+'", name)
	}
	if strings.ToLower(name) != name {
		return fmt.Errorf("index %q must be lowercase", name)
	}
	if i := strings.IndexAny(name, `\/*?"<>|,# `); i >= 0 {
		return fmt.Errorf("index %q contains invalid character %q", name, name[i])
	}
	return nil
}
