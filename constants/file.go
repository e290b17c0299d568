package constants

import "strings"

// SaveExtensions holds the supported output formats for receipt exports.
var SaveExtensions = map[string]struct{}{
	"json":  {},
	"jsonl": {},
	"csv":   {},
	"xlsx":  {},
}

// ImageExtensions holds the receipt image types the OCR adapter accepts.
var ImageExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
}

// Formats for fragment sources.
const (
	IMAGE = "IMAGE"
	PDF   = "PDF"
	JSON  = "JSON"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat classifies a file extension into a fragment source format;
// empty string for unsupported extensions.
func MapExtToFormat(ext string) string {
	switch e := NormalizeExt(ext); {
	case e == "pdf":
		return PDF
	case e == "json" || e == "jsonl":
		return JSON
	default:
		if _, ok := ImageExtensions[e]; ok {
			return IMAGE
		}
		return ""
	}
}
