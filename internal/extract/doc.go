// Package extract turns archive documents into plain text for review.
//
// Text is produced by external commands configured per format (pdftotext and
// pandoc by default) with an optional OCR command for scanned PDFs. Failures
// never stop a migration: InitialText degrades to empty text and the
// operator supplies content by hand. Cleanup applies the scanning-artifact
// repairs offered before publishing.
package extract
