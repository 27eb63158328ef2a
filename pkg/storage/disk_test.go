package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectPathConvention(t *testing.T) {
	userID := uuid.New()
	folderID := uuid.New()
	now := time.UnixMilli(1718000000000)

	p := ObjectPath(userID, &folderID, "lecture-3.pdf", now)
	assert.Equal(t, userID.String()+"/"+folderID.String()+"/1718000000000-lecture-3.pdf", p)

	unfiled := ObjectPath(userID, nil, "notes.txt", now)
	assert.Equal(t, userID.String()+"/unfiled/1718000000000-notes.txt", unfiled)

	// Same name, later upload: distinct path.
	later := ObjectPath(userID, &folderID, "lecture-3.pdf", now.Add(time.Millisecond))
	assert.NotEqual(t, p, later)
}

func TestObjectPathStripsDirectories(t *testing.T) {
	p := ObjectPath(uuid.New(), nil, "../../etc/passwd", time.Now())
	assert.NotContains(t, p, "..")
	assert.True(t, strings.HasSuffix(p, "-passwd"))
}

func TestDiskStorageSaveOpenRemove(t *testing.T) {
	ctx := context.Background()
	store, err := NewDiskStorage(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save(ctx, "user/folder/1-a.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "user/folder/1-a.txt", path)

	r, err := store.Open(ctx, path)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	r.Close()
	assert.Equal(t, "hello", string(data))

	// Overwrite is allowed.
	_, err = store.Save(ctx, path, strings.NewReader("replaced"))
	require.NoError(t, err)
	r, err = store.Open(ctx, path)
	require.NoError(t, err)
	data, _ = io.ReadAll(r)
	r.Close()
	assert.Equal(t, "replaced", string(data))

	require.NoError(t, store.Remove(ctx, path))
	_, err = store.Open(ctx, path)
	assert.Error(t, err)

	// Removing a missing object is fine.
	assert.NoError(t, store.Remove(ctx, path))
}

func TestDiskStorageRejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	store, err := NewDiskStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(ctx, "../outside.txt", strings.NewReader("x"))
	assert.Error(t, err)

	_, err = store.Open(ctx, "/etc/passwd")
	assert.Error(t, err)
}
