package blob

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
	"github.com/d60-Lab/nousrire-site/internal/model"
)

type passthrough struct{}

func (passthrough) Compress(name string, data []byte) (Asset, error) {
	return Asset{Name: name, ContentType: "image/png", Data: data}, nil
}

func TestManager_UploadDelete(t *testing.T) {
	store := NewMemStore()
	m := NewManager(store, passthrough{}, "http://localhost:8080", "public, max-age=31536000")
	ctx := context.Background()

	u, err := m.Upload(ctx, &model.ImageUpload{Name: "Affiche Été.PNG", Data: []byte("img")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://localhost:8080/o/images%2F"), u)
	assert.True(t, strings.HasSuffix(u, "-affiche--t-.png?alt=media"), u)

	p, err := PathFromURL(u)
	require.NoError(t, err)
	rc, meta, err := m.Open(ctx, p)
	require.NoError(t, err)
	_ = rc.Close()
	assert.Equal(t, "image/png", meta.ContentType)
	assert.Equal(t, "public, max-age=31536000", meta.CacheControl)

	require.NoError(t, m.Delete(ctx, u))
	_, _, err = m.Open(ctx, p)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestManager_UploadRejectsEmpty(t *testing.T) {
	m := NewManager(NewMemStore(), passthrough{}, "http://x", "")
	_, err := m.Upload(context.Background(), &model.ImageUpload{Name: "a.png"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestManager_Sweep(t *testing.T) {
	store := NewMemStore()
	m := NewManager(store, passthrough{}, "http://x", "")
	ctx := context.Background()

	kept, err := m.Upload(ctx, &model.ImageUpload{Name: "kept.png", Data: []byte("1")})
	require.NoError(t, err)
	_, err = m.Upload(ctx, &model.ImageUpload{Name: "orphan.png", Data: []byte("2")})
	require.NoError(t, err)

	// 宽限期内的孤儿不删除
	n, err := m.Sweep(ctx, []string{kept}, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = m.Sweep(ctx, []string{kept}, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	objs, err := store.List(ctx, ImagePrefix)
	require.NoError(t, err)
	require.Len(t, objs, 1)
	p, _ := PathFromURL(kept)
	assert.Equal(t, p, objs[0].Path)
}

func TestAssetName(t *testing.T) {
	a := AssetName(Asset{Name: "x.webp", Data: []byte("same")}, "id1")
	b := AssetName(Asset{Name: "x.webp", Data: []byte("same")}, "id2")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "-id1-x.webp"), a)
	assert.Equal(t, "image", sanitize("???"))
}

func TestManager_SameBytesGetDistinctBlobs(t *testing.T) {
	m := NewManager(NewMemStore(), passthrough{}, "http://x", "")
	ctx := context.Background()

	u1, err := m.Upload(ctx, &model.ImageUpload{Name: "poster.png", Data: []byte("poster")})
	require.NoError(t, err)
	u2, err := m.Upload(ctx, &model.ImageUpload{Name: "poster.png", Data: []byte("poster")})
	require.NoError(t, err)
	require.NotEqual(t, u1, u2)

	require.NoError(t, m.Delete(ctx, u1))
	p2, err := PathFromURL(u2)
	require.NoError(t, err)
	rc, _, err := m.Open(ctx, p2)
	require.NoError(t, err)
	_ = rc.Close()
}

func TestWebPCompressor(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for x := 0; x < 400; x++ {
		for y := 0; y < 200; y++ {
			src.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	asset, err := WebPCompressor{MaxEdge: 100, Quality: 75}.Compress("photos/banner.png", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "banner.webp", asset.Name)
	assert.Equal(t, "image/webp", asset.ContentType)

	out, err := webp.Decode(bytes.NewReader(asset.Data))
	require.NoError(t, err)
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())
}

func TestWebPCompressorRejectsGarbage(t *testing.T) {
	_, err := WebPCompressor{}.Compress("a.png", []byte("not an image"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
