// Package directory implements the contact directory on top of a row-table
// workbook: create, read, update, delete, search, statistics, CSV
// import/export, backup, and clear.
//
// All operations run synchronously against the contact sheet. There is no
// locking across calls; two writers sharing a workbook can race on id
// assignment and duplicate checks.
package directory

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/contacts/pkg/types"
)

// Store is the contact directory façade.
type Store struct {
	workbook  types.Workbook
	sheetName string
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for operation failures and summaries.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for export file names and
// backup sheet names.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a Store over an attached workbook. It fails with a
// ConfigurationError when cfg carries no workbook handle.
func New(workbook types.Workbook, cfg types.Config, opts ...Option) (*Store, error) {
	if err := cfg.RequireWorkbook(); err != nil {
		return nil, types.WrapError(types.ErrConfiguration, "opening contact directory", err)
	}
	if workbook == nil {
		return nil, types.NewError(types.ErrConfiguration, "opening contact directory: no workbook")
	}
	s := &Store{
		workbook:  workbook,
		sheetName: cfg.Sheet(),
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Listing is a header plus contacts in sheet order. Data holds the rows
// exactly as stored, parallel to Contacts.
type Listing struct {
	Header   types.Row       `json:"header"`
	Contacts []types.Contact `json:"contacts"`
	Data     []types.Row     `json:"rows"`
}

func newListing(rows []types.Row) Listing {
	return Listing{Header: headerOf(rows), Contacts: []types.Contact{}, Data: []types.Row{}}
}

func (l *Listing) add(r record) {
	l.Contacts = append(l.Contacts, r.contact)
	l.Data = append(l.Data, r.row.Clone())
}

// Rows returns the listing as sheet rows, header first, with every cell as
// stored.
func (l Listing) Rows() []types.Row {
	out := make([]types.Row, 0, len(l.Data)+1)
	out = append(out, l.Header.Clone())
	for _, row := range l.Data {
		out = append(out, row.Clone())
	}
	return out
}

// List returns every contact. A sheet without data rows yields the header
// alone.
func (s *Store) List() (Listing, error) {
	_, rows, err := s.load()
	if err != nil {
		return Listing{}, wrapRead("listing contacts", err)
	}
	listing := newListing(rows)
	for _, r := range recordsOf(rows) {
		listing.add(r)
	}
	return listing, nil
}

// Search returns the contacts where any field contains query, ignoring
// case. The header is always included; an empty query matches every row.
func (s *Store) Search(query string) (Listing, error) {
	_, rows, err := s.load()
	if err != nil {
		return Listing{}, wrapRead("searching contacts", err)
	}
	listing := newListing(rows)
	q := fold(query)
	for _, r := range recordsOf(rows) {
		if matches(r.contact, q) {
			listing.add(r)
		}
	}
	return listing, nil
}

func matches(c types.Contact, foldedQuery string) bool {
	for _, field := range searchFields(c) {
		if strings.Contains(fold(field), foldedQuery) {
			return true
		}
	}
	return false
}

// searchFields lists the text of every field. An unreadable id (0) has no
// text and matches nothing but the empty query.
func searchFields(c types.Contact) []string {
	id := ""
	if c.ID != 0 {
		id = strconv.Itoa(c.ID)
	}
	return []string{id, c.Name, c.Email, c.Division}
}

// Add validates and appends a new contact. The id is one more than the
// largest id in the sheet.
func (s *Store) Add(name, email, division string) AddResult {
	id, err := s.add(name, email, division)
	if err != nil {
		s.logFailure("add", err)
		return AddResult{Result: failed(err)}
	}
	s.logger.Debug("contact added", zap.Int("id", id))
	return AddResult{Result: succeeded("contact added"), ID: id}
}

func (s *Store) add(name, email, division string) (int, error) {
	if err := validateFields(name, email, division); err != nil {
		return 0, err
	}

	tbl, rows, err := s.load()
	if err != nil {
		return 0, err
	}
	records := recordsOf(rows)
	for _, r := range records {
		if sameEmail(r.contact.Email, email) {
			return 0, types.NewError(types.ErrConflict, "email already registered")
		}
	}

	c := types.Contact{ID: nextID(records), Name: name, Email: email, Division: division}
	if err := tbl.AppendRow(contactToRow(c)); err != nil {
		return 0, storageError("appending contact", err)
	}
	return c.ID, nil
}

// Update replaces the name, email, and division of contact id in place.
func (s *Store) Update(id int, name, email, division string) Result {
	if err := s.update(id, name, email, division); err != nil {
		s.logFailure("update", err)
		return failed(err)
	}
	s.logger.Debug("contact updated", zap.Int("id", id))
	return succeeded("contact updated")
}

func (s *Store) update(id int, name, email, division string) error {
	if id == 0 {
		return types.NewError(types.ErrValidation, "all fields are required")
	}
	if err := validateFields(name, email, division); err != nil {
		return err
	}

	tbl, rows, err := s.load()
	if err != nil {
		return err
	}
	records := recordsOf(rows)
	target, ok := findByID(records, id)
	if !ok {
		return types.NewError(types.ErrNotFound, "contact not found")
	}
	for _, r := range records {
		if r.rowNum != target.rowNum && sameEmail(r.contact.Email, email) {
			return types.NewError(types.ErrConflict, "email already used by another contact")
		}
	}

	if err := tbl.ReplaceRange(target.rowNum, firstEditableColumn, []string{name, email, division}); err != nil {
		return storageError("updating contact", err)
	}
	return nil
}

// Delete removes contact id from the sheet.
func (s *Store) Delete(id int) Result {
	if err := s.delete(id); err != nil {
		s.logFailure("delete", err)
		return failed(err)
	}
	s.logger.Debug("contact deleted", zap.Int("id", id))
	return succeeded("contact deleted")
}

func (s *Store) delete(id int) error {
	if id == 0 {
		return types.NewError(types.ErrValidation, "invalid contact id")
	}

	tbl, rows, err := s.load()
	if err != nil {
		return err
	}
	target, ok := findByID(recordsOf(rows), id)
	if !ok {
		return types.NewError(types.ErrNotFound, "contact not found")
	}
	if err := tbl.DeleteRow(target.rowNum); err != nil {
		return storageError("deleting contact", err)
	}
	return nil
}

func validateFields(name, email, division string) error {
	if name == "" || email == "" || division == "" {
		return types.NewError(types.ErrValidation, "all fields are required")
	}
	if !ValidEmail(email) {
		return types.NewError(types.ErrValidation, "invalid email format")
	}
	return nil
}

// sheet returns the contact sheet, creating it with the header row when the
// workbook does not have it yet.
func (s *Store) sheet() (types.RowTable, error) {
	tbl, err := s.workbook.Table(s.sheetName)
	if errors.Is(err, types.ErrTableNotFound) {
		tbl, err = s.workbook.InsertTable(s.sheetName, []types.Row{types.ContactHeader.Clone()})
		if errors.Is(err, types.ErrTableExists) {
			tbl, err = s.workbook.Table(s.sheetName)
		}
	}
	if err != nil {
		return nil, storageError("opening contact sheet", err)
	}
	return tbl, nil
}

// load returns the contact sheet and all of its rows.
func (s *Store) load() (types.RowTable, []types.Row, error) {
	tbl, err := s.sheet()
	if err != nil {
		return nil, nil, err
	}
	rows, err := tbl.ReadAll()
	if err != nil {
		return nil, nil, storageError("reading contacts", err)
	}
	return tbl, rows, nil
}

func headerOf(rows []types.Row) types.Row {
	if len(rows) == 0 {
		return types.ContactHeader.Clone()
	}
	return rows[0].Clone()
}

// storageError classifies a backend failure. A missing workbook handle is a
// configuration problem; anything else is a storage problem. Errors that
// already carry a kind pass through.
func storageError(message string, err error) error {
	var de *types.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, types.ErrNotConfigured) {
		return types.WrapError(types.ErrConfiguration, message, err)
	}
	return types.WrapError(types.ErrStorage, message, err)
}

// wrapRead prefixes a read failure with what was being read.
func wrapRead(what string, err error) error {
	return types.WrapError(kindOf(err), what, err)
}

func kindOf(err error) error {
	for _, kind := range []error{
		types.ErrValidation, types.ErrConflict, types.ErrNotFound, types.ErrConfiguration,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return types.ErrStorage
}

func (s *Store) logFailure(op string, err error) {
	s.logger.Error("contact operation failed",
		zap.String("op", op),
		zap.String("kind", types.KindName(err)),
		zap.Error(err),
	)
}
