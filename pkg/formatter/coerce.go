package formatter

import (
	"strings"
	"unicode/utf8"

	"github.com/go-pkgz/lgr"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// quoteFolder replaces typographic quotes with their ascii forms
var quoteFolder = runes.Map(func(r rune) rune {
	switch r {
	case '‘', '’', '‚', '′':
		return '\''
	case '“', '”', '„', '″':
		return '"'
	}
	return r
})

// coerceText makes a best effort to get clean utf-8 with ascii quotes.
// Input that is not valid utf-8 is assumed to be windows-1252, the usual suspect for raw feeds.
func coerceText(s string) string {
	if !utf8.ValidString(s) {
		decoded, err := charmap.Windows1252.NewDecoder().String(s)
		if err != nil {
			lgr.Printf("[DEBUG] can't decode as windows-1252, dropping invalid bytes: %v", err)
			decoded = strings.ToValidUTF8(s, "")
		}
		s = decoded
	}

	res, _, err := transform.String(quoteFolder, s)
	if err != nil {
		lgr.Printf("[DEBUG] can't fold quotes: %v", err)
		return s
	}
	return res
}
