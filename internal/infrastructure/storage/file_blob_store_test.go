package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBlobStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")

	s, err := NewFileBlobStore(dir)
	require.NoError(t, err)

	_, found, err := s.Load(ctx, DiagnosesKey)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Save(ctx, DiagnosesKey, []byte(`[]`)))
	require.NoError(t, s.Save(ctx, DiagnosesKey, []byte(`[{"id":"a"}]`)))

	data, found, err := s.Load(ctx, DiagnosesKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"a"}]`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
	assert.Equal(t, "coffee-diagnosis_diagnoses.json", entries[0].Name())
}

func TestMemoryBlobStore_CopiesData(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryBlobStore()

	data := []byte("abc")
	require.NoError(t, s.Save(ctx, "k", data))
	data[0] = 'z'

	got, found, err := s.Load(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "abc", string(got))
}

func TestMemoryUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	user.BeginDraft()
	user.Draft.ParcelName = "La Cumbre"

	stored, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Nil(t, stored.Draft, "changes are invisible until Save")

	require.NoError(t, repo.Save(ctx, user))
	user.Draft.ParcelName = "changed after save"

	stored, err = repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.NotNil(t, stored.Draft)
	assert.Equal(t, "La Cumbre", stored.Draft.ParcelName)
}
