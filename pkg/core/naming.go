package core

import (
	"path/filepath"
	"strings"
)

// DefaultDatasetExtensions are the tabular-file extensions stripped from
// dataset names before matching them against item groups.
var DefaultDatasetExtensions = []string{".xpt", ".sas7bdat", ".csv", ".parquet", ".json", ".xlsx", ".rds"}

// NameNormalizer maps a user-supplied dataset name onto the canonical
// item-group name.
type NameNormalizer func(name string) string

// NewNameNormalizer returns a normalizer that strips the given extensions
// (case-insensitive), trims whitespace and upper-cases. With no extensions,
// DefaultDatasetExtensions are used.
func NewNameNormalizer(extensions ...string) NameNormalizer {
	if len(extensions) == 0 {
		extensions = DefaultDatasetExtensions
	}
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return func(name string) string {
		return normalizeDatasetName(name, exts)
	}
}

// NormalizeDatasetName normalises with DefaultDatasetExtensions.
func NormalizeDatasetName(name string) string {
	return normalizeDatasetName(name, DefaultDatasetExtensions)
}

func normalizeDatasetName(name string, exts []string) string {
	name = strings.TrimSpace(filepath.Base(strings.TrimSpace(name)))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			name = name[:len(name)-len(ext)]
			break
		}
	}
	return strings.ToUpper(strings.TrimSpace(name))
}

// OIDParts is the dotted decomposition of an OID such as IT.ADLB.PARAMCD.
type OIDParts struct {
	Prefix   string
	Dataset  string
	Variable string
	Rest     []string
}

// SplitOID decomposes PREFIX.DATASET.VARIABLE[.REST...].
// ok is false when the OID has fewer than three parts.
func SplitOID(oid string) (OIDParts, bool) {
	parts := strings.Split(oid, ".")
	if len(parts) < 3 {
		return OIDParts{}, false
	}
	return OIDParts{
		Prefix:   parts[0],
		Dataset:  parts[1],
		Variable: parts[2],
		Rest:     parts[3:],
	}, true
}

// OIDTokens splits an OID into its dot- and underscore-separated tokens,
// upper-cased.
func OIDTokens(oid string) []string {
	fields := strings.FieldsFunc(oid, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, f := range fields {
		fields[i] = strings.ToUpper(f)
	}
	return fields
}
