// Package report renders reconciliation results and CMS post listings as CSV.
//
// Writers take an io.Writer; WriteFile wraps them with an atomic replace of
// the destination.
package report
