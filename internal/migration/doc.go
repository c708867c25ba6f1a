// Package migration drives the item-by-item move of the archive into the CMS.
//
// A Session pairs the catalog cache with the progress ledger. Next offers the
// first item without a done row together with its extracted text; Publish,
// Draft and Skip record the operator's decision. Every decision that reaches
// the CMS appends exactly one ledger row, including failures, which are
// recorded as error rows and leave the item eligible again.
//
// The ledger writer lock is taken on the first append and held until Close,
// so read-only sessions never contend with a running migration.
package migration
