package testsupport

import (
	"archive/zip"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const odsContentHeader = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" office:version="1.2">
<office:body><office:spreadsheet>
`

const odsContentFooter = `</office:spreadsheet></office:body></office:document-content>
`

// ODSTable renders rows as a single table:table element. Empty strings become
// empty cells.
func ODSTable(name string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(`<table:table table:name="` + xmlEscape(name) + `">`)
	for _, row := range rows {
		b.WriteString("<table:table-row>")
		for _, cell := range row {
			if cell == "" {
				b.WriteString("<table:table-cell/>")
				continue
			}
			b.WriteString(`<table:table-cell office:value-type="string"><text:p>` + xmlEscape(cell) + `</text:p></table:table-cell>`)
		}
		b.WriteString("</table:table-row>")
	}
	b.WriteString("</table:table>")
	return b.String()
}

// WriteODS writes a minimal OpenDocument spreadsheet holding rows in one table.
func WriteODS(t testing.TB, path string, rows [][]string) {
	t.Helper()
	WriteODSContent(t, path, ODSTable("Sheet1", rows))
}

// WriteODSContent writes an OpenDocument spreadsheet whose spreadsheet body is
// the given raw table markup.
func WriteODSContent(t testing.TB, path, tables string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	zw := zip.NewWriter(f)
	entries := []struct{ name, body string }{
		{"mimetype", "application/vnd.oasis.opendocument.spreadsheet"},
		{"content.xml", odsContentHeader + tables + odsContentFooter},
	}
	for _, entry := range entries {
		w, err := zw.Create(entry.name)
		if err != nil {
			t.Fatalf("zip entry %s: %v", entry.name, err)
		}
		if _, err := w.Write([]byte(entry.body)); err != nil {
			t.Fatalf("write zip entry %s: %v", entry.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
}

func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
