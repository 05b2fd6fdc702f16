package blob

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
)

func TestFSStore_PutOpenDelete(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	meta := Metadata{ContentType: "image/webp", CacheControl: "public, max-age=31536000"}

	require.NoError(t, s.Put(ctx, "images/a.webp", []byte("abc"), meta))

	rc, got, err := s.Open(ctx, "images/a.webp")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)
	assert.Equal(t, meta, got)

	objs, err := s.List(ctx, ImagePrefix)
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "images/a.webp", objs[0].Path)
	assert.EqualValues(t, 3, objs[0].Size)

	require.NoError(t, s.Delete(ctx, "images/a.webp"))
	_, _, err = s.Open(ctx, "images/a.webp")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "images/a.webp"), apperr.ErrNotFound)

	objs, err = s.List(ctx, ImagePrefix)
	require.NoError(t, err)
	assert.Empty(t, objs)
}

func TestFSStore_RejectsTraversal(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	for _, p := range []string{"../etc/passwd", "images/../../x", "", "images/a.webp.meta.json"} {
		assert.ErrorIs(t, s.Put(ctx, p, []byte("x"), Metadata{}), apperr.ErrValidation, p)
	}
}

func TestFSStore_ListMissingPrefix(t *testing.T) {
	objs, err := NewMemStore().List(context.Background(), ImagePrefix)
	require.NoError(t, err)
	assert.Empty(t, objs)
}

func TestNewFSStoreOnDisk(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "images/b.webp", []byte("b"), Metadata{ContentType: "image/webp"}))
	objs, err := s.List(ctx, ImagePrefix)
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "images/b.webp", objs[0].Path)
}
