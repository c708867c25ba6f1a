package sheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"archivist/internal/services"
)

// Read opens path with the reader matching its extension.
func Read(path string) (Table, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Table{}, services.Wrap(services.ErrNotFound, "sheet", "read", fmt.Sprintf("spreadsheet not found: %s", path), err)
		}
		return Table{}, fmt.Errorf("stat %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ods":
		return ReadODS(path)
	case ".xlsx", ".xlsm":
		return ReadXLSX(path)
	default:
		return Table{}, services.Wrap(services.ErrValidation, "sheet", "read", fmt.Sprintf("unsupported spreadsheet type %q", filepath.Ext(path)), nil)
	}
}
