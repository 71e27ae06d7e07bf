package directory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/contacts/pkg/types"
)

// The CSV dialect here is intentionally simple and is not RFC 4180: export
// wraps every cell in double quotes without escaping, and import splits on
// newlines and commas and drops every quote character. Cells containing
// commas, quotes, or newlines do not survive a round trip.

// encodeCSV renders rows as quoted cells joined by commas, rows joined by
// newlines, with no trailing newline.
func encodeCSV(rows []types.Row) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, c := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(c)
			b.WriteByte('"')
		}
	}
	return b.String()
}

// decodeCSV splits data into lines and cells, removing quotes and the
// whitespace around every cell. A trailing carriage return is whitespace.
func decodeCSV(data string) [][]string {
	lines := strings.Split(data, "\n")
	out := make([][]string, len(lines))
	for i, line := range lines {
		cells := strings.Split(line, ",")
		for j, c := range cells {
			cells[j] = strings.TrimSpace(strings.ReplaceAll(c, `"`, ""))
		}
		out[i] = cells
	}
	return out
}

// exportFilename is contacts_YYYY-MM-DD.csv for the UTC date of now.
func (s *Store) exportFilename() string {
	return fmt.Sprintf("contacts_%s.csv", s.now().UTC().Format("2006-01-02"))
}

// ExportCSV serializes the contact sheet, header included.
func (s *Store) ExportCSV() ExportResult {
	_, rows, err := s.load()
	if err != nil {
		err = fmt.Errorf("export failed: %w", err)
		s.logFailure("export", err)
		return ExportResult{Result: failed(err)}
	}
	return ExportResult{
		Result:   succeeded("contacts exported"),
		Data:     encodeCSV(rows),
		Filename: s.exportFilename(),
	}
}

// ExportSheetCSV serializes any sheet of the workbook, typically a backup.
// The file name is the sheet name with a .csv suffix.
func (s *Store) ExportSheetCSV(name string) ExportResult {
	rows, err := s.readSheet(name)
	if err != nil {
		err = fmt.Errorf("export failed: %w", err)
		s.logFailure("export", err)
		return ExportResult{Result: failed(err)}
	}
	return ExportResult{
		Result:   succeeded("sheet exported"),
		Data:     encodeCSV(rows),
		Filename: name + ".csv",
	}
}

func (s *Store) readSheet(name string) ([]types.Row, error) {
	if name == s.sheetName {
		_, rows, err := s.load()
		return rows, err
	}
	tbl, err := s.workbook.Table(name)
	if errors.Is(err, types.ErrTableNotFound) {
		return nil, types.WrapError(types.ErrNotFound, fmt.Sprintf("sheet %q", name), err)
	}
	if err != nil {
		return nil, storageError("opening sheet", err)
	}
	rows, err := tbl.ReadAll()
	if err != nil {
		return nil, storageError("reading sheet", err)
	}
	return rows, nil
}

// ImportCSV adds every usable row of data through Add. The first line is a
// header and is skipped. Candidate rows have at least three cells and a
// non-empty first cell; a candidate is imported when its name, email, and
// division are all non-empty. When the header's first cell is "ID" (the
// layout ExportCSV writes), cells are read as ID, Name, Email, Division and
// the ID is ignored; otherwise the first three cells are Name, Email,
// Division.
//
// Failing rows are counted and described as "row N: message", where N is
// the candidate's position plus 2. Only input without any candidate row
// fails the import as a whole.
func (s *Store) ImportCSV(data string) ImportResult {
	lines := decodeCSV(data)

	offset := 0
	if header := lines[0]; len(header) > colDivision && fold(header[0]) == fold(types.ContactHeader[colID]) {
		offset = colName
	}

	var candidates [][]string
	for _, row := range lines[1:] {
		if len(row) >= 3 && row[0] != "" {
			candidates = append(candidates, row)
		}
	}
	if len(candidates) == 0 {
		err := fmt.Errorf("import failed: %w", types.NewError(types.ErrValidation, "no valid data to import"))
		s.logFailure("import", err)
		return ImportResult{Result: failed(err)}
	}

	batch := newBatchID()
	res := ImportResult{BatchID: batch}
	for i, row := range candidates {
		name := cellAt(row, offset)
		email := cellAt(row, offset+1)
		division := cellAt(row, offset+2)
		if name == "" || email == "" || division == "" {
			continue
		}
		added := s.Add(name, email, division)
		if added.Success {
			res.Imported++
			continue
		}
		res.Errors++
		res.ErrorDetails = append(res.ErrorDetails, fmt.Sprintf("row %d: %s", i+2, added.Message))
	}

	res.Result = succeeded(fmt.Sprintf("%d contacts imported, %d errors", res.Imported, res.Errors))
	s.logger.Info("import finished",
		zap.String("batch", batch),
		zap.Int("candidates", len(candidates)),
		zap.Int("imported", res.Imported),
		zap.Int("errors", res.Errors),
	)
	return res
}

// newBatchID returns a time-ordered id that ties the log lines of one
// import together.
func newBatchID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
