// Package types defines the Workbook and RowTable interfaces, the Contact
// entity, configuration, and the standard errors for the contacts directory.
//
// A Workbook holds named tables of rows. Row 1 of every table is its header.
// The contact directory keeps its contacts in one table and writes backups
// as sibling tables.
package types
