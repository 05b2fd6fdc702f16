package blob

import (
	"context"
	"encoding/hex"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
	"github.com/d60-Lab/nousrire-site/internal/model"
)

// ImagePrefix is the directory holding news images.
const ImagePrefix = "images/"

// Manager ties blob storage to the records that own the blobs.
type Manager struct {
	store        Store
	compressor   Compressor
	publicBase   string
	cacheControl string
}

func NewManager(store Store, compressor Compressor, publicBase, cacheControl string) *Manager {
	return &Manager{store: store, compressor: compressor, publicBase: publicBase, cacheControl: cacheControl}
}

// Upload compresses img, stores it under images/<assetName> and returns its public URL.
func (m *Manager) Upload(ctx context.Context, img *model.ImageUpload) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", apperr.Validation("empty image")
	}
	asset, err := m.compressor.Compress(img.Name, img.Data)
	if err != nil {
		return "", err
	}
	p := ImagePrefix + AssetName(asset, uploadID())
	meta := Metadata{ContentType: asset.ContentType, CacheControl: m.cacheControl}
	if err := m.store.Put(ctx, p, asset.Data, meta); err != nil {
		return "", err
	}
	return ObjectURL(m.publicBase, p), nil
}

// Delete removes the blob referenced by rawURL.
func (m *Manager) Delete(ctx context.Context, rawURL string) error {
	p, err := PathFromURL(rawURL)
	if err != nil {
		return err
	}
	return m.store.Delete(ctx, p)
}

// Open streams a blob for download.
func (m *Manager) Open(ctx context.Context, p string) (io.ReadCloser, Metadata, error) {
	return m.store.Open(ctx, p)
}

// Sweep deletes images that no URL in referenced points to and that were
// last modified before olderThan. It returns the number of deleted blobs.
func (m *Manager) Sweep(ctx context.Context, referenced []string, olderThan time.Time) (int, error) {
	keep := make(map[string]struct{}, len(referenced))
	for _, u := range referenced {
		if p, err := PathFromURL(u); err == nil {
			keep[p] = struct{}{}
		}
	}
	objs, err := m.store.List(ctx, ImagePrefix)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, o := range objs {
		if _, ok := keep[o.Path]; ok || !o.ModTime.Before(olderThan) {
			continue
		}
		if err := m.store.Delete(ctx, o.Path); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// AssetName is <16 hex of blake2b-256(data)>-<id>-<sanitized name>.
// The id keeps two uploads of the same bytes apart, so each blob has a
// single owning record and deleting one record never takes another's image.
func AssetName(a Asset, id string) string {
	sum := blake2b.Sum256(a.Data)
	return hex.EncodeToString(sum[:])[:16] + "-" + id + "-" + sanitize(a.Name)
}

func uploadID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

func sanitize(name string) string {
	name = strings.ToLower(path.Base(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	s := strings.Trim(b.String(), "-.")
	if len(s) > 64 {
		s = s[len(s)-64:]
	}
	if s == "" {
		return "image"
	}
	return s
}
