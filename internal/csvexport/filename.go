package csvexport

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

const (
	documentPrefix = "extracted_data_"
	combinedStem   = "combined_extracted_data"
	textStem       = "extracted_text_data"
)

// DocumentFilename names the export of one document's table:
// extracted_data_<original file name>.<ext>.
func DocumentFilename(originalName string, f Format) string {
	return documentPrefix + cleanName(originalName) + "." + f.Extension()
}

// CombinedFilename names the export of a batch's combined table.
func CombinedFilename(f Format) string {
	return combinedStem + "." + f.Extension()
}

// TextFilename names the export of a table extracted from pasted text.
func TextFilename(f Format) string {
	return textStem + "." + f.Extension()
}

// cleanName keeps the original file name readable while removing anything
// that could escape a directory or break a Content-Disposition header.
func cleanName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`"/:*?<>|`, r) {
			return '_'
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "document"
	}
	return name
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename reduces name to a storage-key-safe token.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
