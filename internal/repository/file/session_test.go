package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"userbot/internal/codec"
	"userbot/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepo_LoadMissing(t *testing.T) {
	repo := NewSessionRepo(filepath.Join(t.TempDir(), "app.session"))

	blob, err := repo.Load(context.Background())

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, blob)
}

func TestSessionRepo_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.session")
	repo := NewSessionRepo(path)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []byte("first")))
	require.NoError(t, repo.Save(ctx, []byte("second")))

	blob, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), blob)
	assert.Equal(t, path, repo.Location())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSessionRepo_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.session")
	repo := NewSessionRepo(path)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []byte("valid blob")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// simulate a torn write
	require.NoError(t, os.WriteFile(path, data[:len(data)-3], 0600))

	_, err = repo.Load(ctx)
	assert.ErrorIs(t, err, codec.ErrCorrupt)
}

func TestSessionRepo_FailedSaveKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.session")
	repo := NewSessionRepo(path)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []byte("good")))

	// parent of the target is a regular file
	broken := NewSessionRepo(filepath.Join(path, "child.session"))
	assert.Error(t, broken.Save(ctx, []byte("bad")))

	blob, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("good"), blob)
}

func TestSessionRepo_Encrypted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.session")
	ctx := context.Background()

	repo := NewSessionRepo(path, WithPassphrase("correct horse"), WithWorkFactor(10))
	require.NoError(t, repo.Save(ctx, []byte("secret blob")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(raw) > len(ageHeader))
	assert.Equal(t, ageHeader, raw[:len(ageHeader)])
	assert.NotContains(t, string(raw), "secret blob")

	blob, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret blob"), blob)

	t.Run("missing passphrase", func(t *testing.T) {
		_, err := NewSessionRepo(path).Load(ctx)
		assert.ErrorIs(t, err, ErrPassphraseRequired)
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		_, err := NewSessionRepo(path, WithPassphrase("wrong")).Load(ctx)
		assert.Error(t, err)
	})
}
