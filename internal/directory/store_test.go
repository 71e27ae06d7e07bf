package directory

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/contacts/internal/memory"
	"github.com/mesh-intelligence/contacts/pkg/types"
)

func TestNewRequiresWorkbookHandle(t *testing.T) {
	_, err := New(memory.NewAttached(), types.Config{Backend: types.BackendMemory})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrConfiguration))
	assert.True(t, errors.Is(err, types.ErrNotConfigured))
	assert.Equal(t, "ConfigurationError", types.KindName(err))

	_, err = New(nil, testConfig())
	assert.True(t, errors.Is(err, types.ErrConfiguration))
}

func TestListEmptyReturnsHeaderOnly(t *testing.T) {
	s, wb, _ := newTestStore(t)

	listing, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, types.ContactHeader, listing.Header)
	assert.Empty(t, listing.Contacts)
	assert.Equal(t, []types.Row{types.ContactHeader}, listing.Rows())

	// The first access creates the sheet with its header.
	assert.Equal(t, []types.Row{types.ContactHeader}, sheetRows(t, wb, types.DefaultSheetName))
}

func TestEmptyListingEncodesEmptyArrays(t *testing.T) {
	s, _, _ := newTestStore(t)

	listing, err := s.List()
	require.NoError(t, err)
	data, err := json.Marshal(listing)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"contacts":[]`)
	assert.Contains(t, string(data), `"rows":[]`)
}

func TestListReturnsStoredCellsUnchanged(t *testing.T) {
	s, wb, _ := newTestStore(t)
	stored := []types.Row{
		types.ContactHeader,
		{"3.0", "Ann", "ann@x.com", "HR"},
		{"nope", "Bo", "bo@x.com", "IT", "extra"},
		{" 5 ", "Cy"},
	}
	_, err := wb.InsertTable(types.DefaultSheetName, stored)
	require.NoError(t, err)

	listing, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, stored, listing.Rows())
	require.Len(t, listing.Contacts, 3)
	assert.Equal(t, 3, listing.Contacts[0].ID)
	assert.Zero(t, listing.Contacts[1].ID)

	found, err := s.Search("extra")
	require.NoError(t, err)
	assert.Empty(t, found.Contacts, "search looks at contact fields only")

	found, err = s.Search("bo@")
	require.NoError(t, err)
	assert.Equal(t, []types.Row{types.ContactHeader, stored[2]}, found.Rows())
}

func TestAddAssignsIncreasingIDs(t *testing.T) {
	s, wb, _ := newTestStore(t)

	assert.Equal(t, 1, mustAdd(t, s, "Ann", "ann@x.com", "HR"))
	assert.Equal(t, 2, mustAdd(t, s, "Bo", "bo@x.com", "IT"))

	assert.Equal(t, []types.Row{
		types.ContactHeader,
		{"1", "Ann", "ann@x.com", "HR"},
		{"2", "Bo", "bo@x.com", "IT"},
	}, sheetRows(t, wb, types.DefaultSheetName))
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name     string
		contact  types.Contact
		wantKind error
		wantMsg  string
	}{
		{
			name:     "missing name",
			contact:  types.Contact{Email: "a@x.com", Division: "HR"},
			wantKind: types.ErrValidation,
			wantMsg:  "all fields are required",
		},
		{
			name:     "missing email",
			contact:  types.Contact{Name: "Ann", Division: "HR"},
			wantKind: types.ErrValidation,
			wantMsg:  "all fields are required",
		},
		{
			name:     "missing division",
			contact:  types.Contact{Name: "Ann", Email: "a@x.com"},
			wantKind: types.ErrValidation,
			wantMsg:  "all fields are required",
		},
		{
			name:     "missing fields checked before email format",
			contact:  types.Contact{Name: "", Email: "not-an-email", Division: "HR"},
			wantKind: types.ErrValidation,
			wantMsg:  "all fields are required",
		},
		{
			name:     "malformed email",
			contact:  types.Contact{Name: "Ann", Email: "ann@x", Division: "HR"},
			wantKind: types.ErrValidation,
			wantMsg:  "invalid email format",
		},
		{
			name:     "no-break space in email",
			contact:  types.Contact{Name: "Ann", Email: "a\u00a0b@x.com", Division: "HR"},
			wantKind: types.ErrValidation,
			wantMsg:  "invalid email format",
		},
		{
			name:     "duplicate email ignoring case",
			contact:  types.Contact{Name: "Other", Email: "TAKEN@X.COM", Division: "Ops"},
			wantKind: types.ErrConflict,
			wantMsg:  "email already registered",
		},
		{
			name:     "format checked before duplicates",
			contact:  types.Contact{Name: "Other", Email: "taken @x.com", Division: "Ops"},
			wantKind: types.ErrValidation,
			wantMsg:  "invalid email format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestStore(t)
			mustAdd(t, s, "Taken", "taken@x.com", "HR")

			res := s.Add(tt.contact.Name, tt.contact.Email, tt.contact.Division)
			assert.False(t, res.Success)
			assert.Zero(t, res.ID)
			assert.True(t, errors.Is(res.Err, tt.wantKind), "got %v", res.Err)
			assert.Equal(t, tt.wantMsg, res.Message)
			assert.Equal(t, types.KindName(tt.wantKind), res.Kind)
		})
	}
}

func TestDuplicateEmailConflictsRegardlessOfOtherFields(t *testing.T) {
	s, _, _ := newTestStore(t)
	mustAdd(t, s, "Ann", "Ann@Example.com", "HR")

	for _, variant := range []string{"ann@example.com", "ANN@EXAMPLE.COM", "aNn@eXample.Com"} {
		res := s.Add("Someone", variant, "Elsewhere")
		assert.True(t, errors.Is(res.Err, types.ErrConflict), variant)
	}
}

func TestAddFailureIsLogged(t *testing.T) {
	s, _, logs := newTestStore(t)
	s.Add("", "", "")

	entries := logs.FilterMessage("contact operation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "add", fields["op"])
	assert.Equal(t, "ValidationError", fields["kind"])
}

func TestIDsAreMaxPlusOne(t *testing.T) {
	s, _, _ := newTestStore(t)

	assert.Equal(t, 1, mustAdd(t, s, "Ann", "ann@x.com", "HR"))
	assert.Equal(t, 2, mustAdd(t, s, "Bo", "bo@x.com", "IT"))
	assert.Equal(t, 3, mustAdd(t, s, "Cy", "cy@x.com", "HR"))

	require.True(t, s.Delete(1).Success)
	assert.Equal(t, 4, mustAdd(t, s, "Di", "di@x.com", "Ops"), "deleted low ids are not reused")
}

func TestIDsCountFromMaxOfStoredCells(t *testing.T) {
	s, wb, _ := newTestStore(t)
	_, err := wb.InsertTable(types.DefaultSheetName, []types.Row{
		types.ContactHeader,
		{"7", "Ann", "ann@x.com", "HR"},
		{"nope", "Bo", "bo@x.com", "IT"},
		{"3", "Cy", "cy@x.com", "HR"},
	})
	require.NoError(t, err)

	assert.Equal(t, 8, mustAdd(t, s, "Di", "di@x.com", "Ops"))
}

func TestUpdate(t *testing.T) {
	s, wb, _ := newTestStore(t)
	mustAdd(t, s, "Ann", "ann@x.com", "HR")
	mustAdd(t, s, "Bo", "bo@x.com", "IT")

	t.Run("replaces fields in place", func(t *testing.T) {
		res := s.Update(2, "Bob", "bob@x.com", "Sales")
		require.True(t, res.Success, res.Message)
		assert.Equal(t, []types.Row{
			types.ContactHeader,
			{"1", "Ann", "ann@x.com", "HR"},
			{"2", "Bob", "bob@x.com", "Sales"},
		}, sheetRows(t, wb, types.DefaultSheetName))
	})

	t.Run("keeping own email succeeds", func(t *testing.T) {
		res := s.Update(1, "Ann B", "ANN@x.com", "HR")
		assert.True(t, res.Success, res.Message)
	})

	t.Run("email of another contact conflicts", func(t *testing.T) {
		res := s.Update(1, "Ann", "BOB@x.com", "HR")
		assert.True(t, errors.Is(res.Err, types.ErrConflict))
		assert.Equal(t, "email already used by another contact", res.Message)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		res := s.Update(99, "Ghost", "ghost@x.com", "None")
		assert.True(t, errors.Is(res.Err, types.ErrNotFound))
		assert.Equal(t, "contact not found", res.Message)
	})

	t.Run("zero id is a validation error", func(t *testing.T) {
		res := s.Update(0, "Ghost", "ghost@x.com", "None")
		assert.True(t, errors.Is(res.Err, types.ErrValidation))
	})

	t.Run("invalid email is rejected before lookup", func(t *testing.T) {
		res := s.Update(99, "Ghost", "ghost", "None")
		assert.True(t, errors.Is(res.Err, types.ErrValidation))
		assert.Equal(t, "invalid email format", res.Message)
	})
}

func TestUpdateMatchesIDCellsLoosely(t *testing.T) {
	s, wb, _ := newTestStore(t)
	_, err := wb.InsertTable(types.DefaultSheetName, []types.Row{
		types.ContactHeader,
		{" 5 ", "Ann", "ann@x.com", "HR"},
		{"6.0", "Bo", "bo@x.com", "IT"},
	})
	require.NoError(t, err)

	assert.True(t, s.Update(5, "Ann", "ann@x.com", "Ops").Success)
	assert.True(t, s.Update(6, "Bo", "bo@x.com", "Ops").Success)

	rows := sheetRows(t, wb, types.DefaultSheetName)
	assert.Equal(t, types.Row{" 5 ", "Ann", "ann@x.com", "Ops"}, rows[1], "id cell is left untouched")
	assert.Equal(t, "Ops", rows[2][colDivision])
}

func TestDeleteTwice(t *testing.T) {
	s, wb, _ := newTestStore(t)
	mustAdd(t, s, "Ann", "ann@x.com", "HR")
	mustAdd(t, s, "Bo", "bo@x.com", "IT")

	first := s.Delete(1)
	assert.True(t, first.Success)
	assert.Equal(t, "contact deleted", first.Message)

	second := s.Delete(1)
	assert.False(t, second.Success)
	assert.True(t, errors.Is(second.Err, types.ErrNotFound))

	assert.Equal(t, []types.Row{
		types.ContactHeader,
		{"2", "Bo", "bo@x.com", "IT"},
	}, sheetRows(t, wb, types.DefaultSheetName))
}

func TestDeleteZeroID(t *testing.T) {
	s, _, _ := newTestStore(t)
	res := s.Delete(0)
	assert.True(t, errors.Is(res.Err, types.ErrValidation))
	assert.Equal(t, "invalid contact id", res.Message)
}

func TestSearch(t *testing.T) {
	s, _, _ := newTestStore(t)
	mustAdd(t, s, "Ann Lee", "ann@x.com", "HR")
	mustAdd(t, s, "Bo", "bo@corp.io", "IT")
	mustAdd(t, s, "Cy", "cy@x.com", "Human Resources")

	tests := []struct {
		name    string
		query   string
		wantIDs []int
	}{
		{name: "name substring, any case", query: "LEE", wantIDs: []int{1}},
		{name: "email domain", query: "@x.com", wantIDs: []int{1, 3}},
		{name: "division", query: "it", wantIDs: []int{2}},
		{name: "id text", query: "3", wantIDs: []int{3}},
		{name: "matches several fields", query: "h", wantIDs: []int{1, 3}},
		{name: "no match", query: "zzz", wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing, err := s.Search(tt.query)
			require.NoError(t, err)
			assert.Equal(t, types.ContactHeader, listing.Header)
			var ids []int
			for _, c := range listing.Contacts {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestSearchEmptyQueryReturnsEveryRow(t *testing.T) {
	s, _, _ := newTestStore(t)
	mustAdd(t, s, "Ann", "ann@x.com", "HR")
	mustAdd(t, s, "Bo", "bo@x.com", "IT")

	all, err := s.List()
	require.NoError(t, err)
	found, err := s.Search("")
	require.NoError(t, err)
	assert.Equal(t, all.Rows(), found.Rows())
	assert.Len(t, found.Rows(), 3)
}

func TestSearchEmptySheet(t *testing.T) {
	s, _, _ := newTestStore(t)
	listing, err := s.Search("anything")
	require.NoError(t, err)
	assert.Equal(t, []types.Row{types.ContactHeader}, listing.Rows())
}

func TestReadsPropagateStorageErrors(t *testing.T) {
	wb := &failingWorkbook{Workbook: memory.NewAttached(), failTable: true}
	s, err := New(wb, testConfig())
	require.NoError(t, err)

	_, err = s.List()
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrStorage))
	assert.Contains(t, err.Error(), "listing contacts")

	_, err = s.Search("x")
	assert.True(t, errors.Is(err, types.ErrStorage))

	_, err = s.Stats()
	assert.True(t, errors.Is(err, types.ErrStorage))
}

func TestDetachedWorkbookSurfacesAsStorageError(t *testing.T) {
	wb := memory.NewAttached()
	s, err := New(wb, testConfig())
	require.NoError(t, err)
	require.NoError(t, wb.Detach())

	res := s.Add("Ann", "ann@x.com", "HR")
	assert.False(t, res.Success)
	assert.True(t, errors.Is(res.Err, types.ErrStorage))
	assert.True(t, errors.Is(res.Err, types.ErrDetached))
}

func TestMutationsAbsorbWriteFailures(t *testing.T) {
	wb := &failingWorkbook{Workbook: memory.NewAttached()}
	s, err := New(wb, testConfig())
	require.NoError(t, err)
	mustAdd(t, s, "Ann", "ann@x.com", "HR")

	wb.failWrites = true
	add := s.Add("Bo", "bo@x.com", "IT")
	assert.True(t, errors.Is(add.Err, types.ErrStorage))
	assert.Equal(t, "StorageError", add.Kind)

	del := s.Delete(1)
	assert.True(t, errors.Is(del.Err, types.ErrStorage))
}

func TestCustomSheetName(t *testing.T) {
	wb := memory.NewAttached()
	cfg := testConfig()
	cfg.SheetName = "People"
	s, err := New(wb, cfg)
	require.NoError(t, err)
	mustAdd(t, s, "Ann", "ann@x.com", "HR")

	assert.Len(t, sheetRows(t, wb, "People"), 2)
	_, err = wb.Table(types.DefaultSheetName)
	assert.ErrorIs(t, err, types.ErrTableNotFound)
}

func TestScenarioAddDeleteAddThenStats(t *testing.T) {
	s, _, _ := newTestStore(t)

	assert.Equal(t, 1, mustAdd(t, s, "Ann", "ann@x.com", "HR"))
	assert.Equal(t, 2, mustAdd(t, s, "Bo", "bo@x.com", "IT"))
	require.True(t, s.Delete(1).Success)
	assert.Equal(t, 3, mustAdd(t, s, "Cy", "cy@x.com", "HR"))

	st, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalContacts)
	assert.Equal(t, []DivisionCount{{"IT", 1}, {"HR", 1}}, st.Divisions)
	assert.Equal(t, "IT", st.TopDivision)
}
