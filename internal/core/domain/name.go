package domain

import (
	"strings"
	"unicode"
)

const minModelNameLength = 3

// forbiddenScripts lists the script blocks a model name may not contain.
// The name doubles as the processing service's document identifier, which
// only accepts an ASCII-based namespace.
var forbiddenScripts = []*unicode.RangeTable{unicode.Hangul}

// ValidateModelName applies the local name rules in order: empty, too
// short, forbidden script. The first failure wins. Uniqueness is checked
// separately against the model registry.
func ValidateModelName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrNameEmpty
	}
	if len([]rune(trimmed)) < minModelNameLength {
		return ErrNameTooShort
	}
	for _, r := range name {
		if unicode.IsOneOf(forbiddenScripts, r) {
			return ErrNameForbiddenScript
		}
	}
	return nil
}
