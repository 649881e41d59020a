package roster

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var nameCaser = cases.Title(language.Und)

// NormalizeName canonicalizes a display name: inner whitespace collapses
// to single spaces and words are title-cased, so "ada  lovelace" and
// "Ada Lovelace" address the same entry. Blank names are rejected.
func NormalizeName(name string) (string, error) {
	collapsed := strings.Join(strings.Fields(name), " ")
	if collapsed == "" {
		return "", errors.New("name must not be blank")
	}
	return nameCaser.String(collapsed), nil
}
