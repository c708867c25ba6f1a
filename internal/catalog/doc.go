// Package catalog scans the archive tree and groups dated source documents
// into migration items.
//
// The archive is a root directory of numeric year folders holding files named
// like PSC_1999_03_04.pdf and PSC_1999_03_04.docx. Files sharing a stem become
// one Item carrying up to one PDF (preferred for extraction) and one DOCX
// (fallback). Years, files, and stems that do not fit the convention are
// skipped silently; discovery never fails.
package catalog
