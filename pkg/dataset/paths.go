package dataset

import (
	"path/filepath"
	"strings"
)

// TableExt is the table file extension the sidecar convention keys on.
const TableExt = ".feather"

// SidecarPath derives the sidecar path for a table path: the table
// extension is replaced by ".pmm" plus that extension, any other
// extension is replaced by ".pmm" alone.
func SidecarPath(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	if ext == TableExt {
		return base + ".pmm" + ext
	}
	return base + ".pmm"
}

// DatasetName is the default dataset name for a table path: the file's
// base name without extension.
func DatasetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
