package archive

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSPut(t *testing.T) {
	root := t.TempDir()
	sink, err := NewFS(root)
	require.NoError(t, err)

	ctx := context.Background()
	data := `"ID","Name","Email","Division"`
	require.NoError(t, sink.Put(ctx, "exports/contacts.csv", strings.NewReader(data), ContentTypeCSV))

	got, err := os.ReadFile(filepath.Join(root, "exports", "contacts.csv"))
	require.NoError(t, err)
	assert.Equal(t, data, string(got))

	entries, err := os.ReadDir(filepath.Join(root, "exports"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFSPutDoesNotOverwrite(t *testing.T) {
	root := t.TempDir()
	sink, err := NewFS(root)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sink.Put(ctx, "a.csv", strings.NewReader("first"), ContentTypeCSV))
	err = sink.Put(ctx, "a.csv", strings.NewReader("second"), ContentTypeCSV)
	assert.ErrorIs(t, err, ErrExists)

	got, err := os.ReadFile(filepath.Join(root, "a.csv"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))
}

func TestFSPutRejectsBadKeys(t *testing.T) {
	sink, err := NewFS(t.TempDir())
	require.NoError(t, err)

	err = sink.Put(context.Background(), "../escape.csv", strings.NewReader("x"), ContentTypeCSV)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestFSPutHonorsCanceledContext(t *testing.T) {
	sink, err := NewFS(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = sink.Put(ctx, "a.csv", strings.NewReader("x"), ContentTypeCSV)
	assert.ErrorIs(t, err, context.Canceled)
}
