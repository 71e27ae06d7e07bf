package directory

import (
	"math"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/contacts/pkg/types"
)

// Column positions of a contact row (0-based). This file is the only place
// that knows the layout.
const (
	colID = iota
	colName
	colEmail
	colDivision
)

// firstEditableColumn is the 1-based column where Name starts; Update
// rewrites Name, Email, and Division from here.
const firstEditableColumn = colName + 1

// record is a contact plus the stored row and the 1-based sheet row number
// it was read from.
type record struct {
	contact types.Contact
	row     types.Row
	rowNum  int
}

func contactFromRow(row types.Row) types.Contact {
	return types.Contact{
		ID:       parseID(cellAt(row, colID)),
		Name:     cellAt(row, colName),
		Email:    cellAt(row, colEmail),
		Division: cellAt(row, colDivision),
	}
}

func contactToRow(c types.Contact) types.Row {
	return types.Row{strconv.Itoa(c.ID), c.Name, c.Email, c.Division}
}

// recordsOf decodes the data rows of a sheet; rows[0] is the header.
func recordsOf(rows []types.Row) []record {
	if len(rows) <= 1 {
		return nil
	}
	out := make([]record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		out = append(out, record{contact: contactFromRow(row), row: row, rowNum: i + 2})
	}
	return out
}

func cellAt(row types.Row, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// parseID reads an id cell. Cells written as "3", " 3 ", or "3.0" all name
// contact 3. Anything else reads as 0, which never matches a lookup.
func parseID(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// nextID returns one more than the largest id present, or 1.
func nextID(records []record) int {
	maxID := 0
	for _, r := range records {
		if r.contact.ID > maxID {
			maxID = r.contact.ID
		}
	}
	return maxID + 1
}

func findByID(records []record, id int) (record, bool) {
	for _, r := range records {
		if r.contact.ID == id {
			return r, true
		}
	}
	return record{}, false
}
