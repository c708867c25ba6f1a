// Package sheet reads spreadsheet indexes into a uniform header-and-rows
// table.
//
// OpenDocument (.ods) files are parsed directly from content.xml; Excel
// workbooks (.xlsx, .xlsm) go through excelize. Only the first table or sheet
// is read. Blank header cells are named after their column letter (ColA,
// ColB, ...) and repeated header names receive _2, _3 suffixes so every column
// can be addressed by name.
package sheet
