package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/contacts/pkg/types"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"3", 3},
		{" 3 ", 3},
		{"3.0", 3},
		{"12", 12},
		{"3.5", 0},
		{"", 0},
		{"abc", 0},
		{"1e400", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseID(tt.in))
		})
	}
}

func TestContactFromShortRow(t *testing.T) {
	c := contactFromRow(types.Row{"4", "Ann"})
	assert.Equal(t, types.Contact{ID: 4, Name: "Ann"}, c)
	assert.Equal(t, types.Row{"4", "Ann", "", ""}, contactToRow(c))
}

func TestRecordsOfNumbersRowsFromTwo(t *testing.T) {
	recs := recordsOf([]types.Row{types.ContactHeader, {"9"}, {"2"}})
	assert.Equal(t, []record{
		{contact: types.Contact{ID: 9}, rowNum: 2},
		{contact: types.Contact{ID: 2}, rowNum: 3},
	}, recs)
	assert.Equal(t, 10, nextID(recs))
	assert.Nil(t, recordsOf([]types.Row{types.ContactHeader}))
	assert.Equal(t, 1, nextID(nil))
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"ann@x.com", true},
		{"a.b+c@sub.example.org", true},
		{"ann@x", false},
		{"ann x@x.com", false},
		{"ann@@x.com", false},
		{"@x.com", false},
		{"ann@a.b.c", true},
		{"", false},
		{"a\tb@x.com", false},
		{"a\vb@x.com", false},
		{"a\u00a0b@x.com", false},
		{"ann@x.com\u2028", false},
		{"ann@x\u2029.com", false},
		{"a\u3000b@x.com", false},
		{"a\u2003b@x.com", false},
		{"\ufeffann@x.com", false},
		{"ann@ex\u00e4mple.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.email))
		})
	}
}

func TestSameEmail(t *testing.T) {
	assert.True(t, sameEmail("Ann@X.com", "ann@x.COM"))
	assert.False(t, sameEmail("ann@x.com", "bo@x.com"))
	assert.False(t, sameEmail("", ""))
}
