// Package reconcile pairs published CMS posts with rows of an independently
// maintained issue spreadsheet.
//
// Both sides are bucketed by calendar month. Within a month, posts are walked
// in order and each claims the first remaining issue whose link is a
// substring of the post permalink or contains it. Every issue is claimed at
// most once. Entries whose month cannot be determined are reported unmatched
// without entering any bucket.
package reconcile
