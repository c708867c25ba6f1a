package sheet

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	nsTable = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	nsText  = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
)

// ReadODS parses the first table of an OpenDocument spreadsheet.
func ReadODS(path string) (Table, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return Table{}, fmt.Errorf("open ods %s: %w", path, err)
	}
	defer zr.Close()

	content, err := zr.Open("content.xml")
	if err != nil {
		return Table{}, fmt.Errorf("open content.xml in %s: %w", path, err)
	}
	defer content.Close()

	rows, err := readODSRows(content)
	if err != nil {
		return Table{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return FromRows(rows)
}

type odsTable struct {
	Rows []odsRow `xml:"urn:oasis:names:tc:opendocument:xmlns:table:1.0 table-row"`
}

type odsRow struct {
	Repeat string    `xml:"urn:oasis:names:tc:opendocument:xmlns:table:1.0 number-rows-repeated,attr"`
	Cells  []odsCell `xml:"urn:oasis:names:tc:opendocument:xmlns:table:1.0 table-cell"`
}

type odsCell struct {
	Repeat string
	Text   string
}

// UnmarshalXML joins the text of every text:p descendant with a single space.
// Character data outside paragraphs is ignored.
func (c *odsCell) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		if attr.Name.Space == nsTable && attr.Name.Local == "number-columns-repeated" {
			c.Repeat = attr.Value
		}
	}
	var (
		parts     []string
		current   strings.Builder
		paraDepth int
	)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space == nsText && el.Name.Local == "p" {
				if paraDepth == 0 {
					current.Reset()
				}
				paraDepth++
			}
		case xml.EndElement:
			if el.Name == start.Name {
				c.Text = strings.TrimSpace(strings.Join(parts, " "))
				return nil
			}
			if el.Name.Space == nsText && el.Name.Local == "p" && paraDepth > 0 {
				paraDepth--
				if paraDepth == 0 && current.Len() > 0 {
					parts = append(parts, current.String())
				}
			}
		case xml.CharData:
			if paraDepth > 0 {
				current.Write(el)
			}
		}
	}
}

func readODSRows(r io.Reader) ([][]string, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, ErrNoTable
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Space != nsTable || start.Name.Local != "table" {
			continue
		}
		var table odsTable
		if err := dec.DecodeElement(&table, &start); err != nil {
			return nil, err
		}
		return expandODSRows(table)
	}
}

// expandODSRows applies the repeat attributes. Trailing blank cells are
// dropped before repetition so that the filler cells office suites append to
// every row do not widen the table. Blank runs are clipped to the column
// limit; repeats of real content past the limits fail with ErrTooLarge.
func expandODSRows(table odsTable) ([][]string, error) {
	var rows [][]string
	cellCount := 0
	for _, row := range table.Rows {
		var cells []string
		for _, cell := range row.Cells {
			repeat, err := repeatCount(cell.Repeat)
			if err != nil {
				return nil, err
			}
			if room := maxColumns - len(cells); repeat > room {
				if cell.Text != "" {
					return nil, fmt.Errorf("%w: more than %d columns", ErrTooLarge, maxColumns)
				}
				repeat = room
			}
			for i := 0; i < repeat; i++ {
				cells = append(cells, cell.Text)
			}
		}
		cells = trimTrailingBlank(cells)
		if blankRow(cells) {
			continue
		}
		repeat, err := repeatCount(row.Repeat)
		if err != nil {
			return nil, err
		}
		if len(rows)+repeat > maxRows || cellCount+repeat*len(cells) > maxCells {
			return nil, fmt.Errorf("%w: more than %d rows or %d cells", ErrTooLarge, maxRows, maxCells)
		}
		for i := 0; i < repeat; i++ {
			rows = append(rows, append([]string(nil), cells...))
		}
		cellCount += repeat * len(cells)
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}

const (
	maxColumns = 1 << 14
	maxRows    = 1 << 20
	maxCells   = 1 << 23
)

func repeatCount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid repeat count %q", raw)
	}
	return n, nil
}
