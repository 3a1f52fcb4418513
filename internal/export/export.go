// Package export writes catalog panels and listings to office documents:
// program detail and recommendation reports as .docx, listings as .xlsx.
package export

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
)

const namePrefix = "AgriGrant_SC_"

// Extensions of the produced documents.
const (
	ExtDocx = ".docx"
	ExtXlsx = ".xlsx"
)

// DefaultName returns the conventional file name for an exported panel,
// e.g. "AgriGrant_SC_USDA_NRCS_Programs.xlsx" for title "USDA NRCS Programs".
func DefaultName(title, ext string) string {
	var b strings.Builder
	b.WriteString(namePrefix)
	sep := false
	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			if sep && b.Len() > len(namePrefix) {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(r)
		default:
			sep = true
		}
	}
	name := strings.TrimSuffix(b.String(), "_")
	if name == strings.TrimSuffix(namePrefix, "_") {
		name = namePrefix + "Export"
	}
	return name + ext
}

// Resolve picks the output path: out when given, otherwise DefaultName(title)
// inside dir. Missing parent directories are created.
func Resolve(out, dir, title, ext string) (string, error) {
	path := out
	if path == "" {
		if dir == "" {
			dir = "."
		}
		path = filepath.Join(dir, DefaultName(title, ext))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", eris.Wrapf(err, "export: create directory for %s", path)
	}
	return path, nil
}
