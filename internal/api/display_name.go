package api

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// deriveDisplayName builds a readable project name from an uploaded file
// name: the extension is dropped, separators become spaces, and words are
// title-cased ("season-2_finale.mp3" becomes "Season 2 Finale").
func deriveDisplayName(fileName string) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	base = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return fileName
	}
	name := titleCaser.String(base)
	if len(name) > maxDisplayNameLength {
		name = name[:maxDisplayNameLength]
	}
	return name
}
