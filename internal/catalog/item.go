package catalog

import "fmt"

// Date is a calendar day parsed from an item stem.
type Date struct {
	Year  int
	Month int
	Day   int
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// SourceKind describes which document formats an item carries.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourcePDFOnly
	SourceDOCXOnly
	SourceBoth
)

func (k SourceKind) String() string {
	switch k {
	case SourcePDFOnly:
		return "pdf"
	case SourceDOCXOnly:
		return "docx"
	case SourceBoth:
		return "pdf+docx"
	default:
		return "none"
	}
}

// Item is one logical document in the archive.
type Item struct {
	GroupKey       string
	ContainerLabel string
	Date           Date
	PrimaryPath    string
	SecondaryPath  string
}

// HasPrimary reports whether the item has a PDF source.
func (i Item) HasPrimary() bool { return i.PrimaryPath != "" }

// HasSecondary reports whether the item has a DOCX source.
func (i Item) HasSecondary() bool { return i.SecondaryPath != "" }

// Sources returns the format variant the item carries.
func (i Item) Sources() SourceKind {
	switch {
	case i.HasPrimary() && i.HasSecondary():
		return SourceBoth
	case i.HasPrimary():
		return SourcePDFOnly
	case i.HasSecondary():
		return SourceDOCXOnly
	default:
		return SourceNone
	}
}

// ExtractionOrder lists source paths in the order text extraction should try
// them: the PDF first, then the DOCX.
func (i Item) ExtractionOrder() []string {
	paths := make([]string, 0, 2)
	if i.HasPrimary() {
		paths = append(paths, i.PrimaryPath)
	}
	if i.HasSecondary() {
		paths = append(paths, i.SecondaryPath)
	}
	return paths
}
