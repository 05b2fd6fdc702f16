// Package blob stores news images and resolves their public URLs.
package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
)

const metaSuffix = ".meta.json"

// Metadata is stored next to every blob.
type Metadata struct {
	ContentType  string `json:"contentType"`
	CacheControl string `json:"cacheControl"`
}

// Object describes a stored blob.
type Object struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Store is the blob backend.
type Store interface {
	Put(ctx context.Context, p string, data []byte, meta Metadata) error
	Open(ctx context.Context, p string) (io.ReadCloser, Metadata, error)
	Delete(ctx context.Context, p string) error
	List(ctx context.Context, prefix string) ([]Object, error)
}

// FSStore keeps blobs on an afero filesystem rooted at a base path.
type FSStore struct {
	fs afero.Fs
}

// NewFSStore returns a store rooted at root on the OS filesystem.
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &FSStore{fs: afero.NewBasePathFs(afero.NewOsFs(), root)}, nil
}

// NewMemStore returns an in-memory store.
func NewMemStore() *FSStore {
	return &FSStore{fs: afero.NewMemMapFs()}
}

// cleanPath rejects traversal and absolute paths.
func cleanPath(p string) (string, error) {
	c := path.Clean("/" + p)[1:]
	if c == "" || c != strings.TrimPrefix(p, "/") || strings.HasSuffix(c, metaSuffix) {
		return "", apperr.Validation("invalid blob path %q", p)
	}
	return c, nil
}

func (s *FSStore) Put(ctx context.Context, p string, data []byte, meta Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := cleanPath(p)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(path.Dir(p), 0o755); err != nil {
		return apperr.Backend("create blob dir", err)
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(s.fs, p+metaSuffix, raw, 0o644); err != nil {
		return apperr.Backend("write blob metadata", err)
	}
	if err := afero.WriteFile(s.fs, p, data, 0o644); err != nil {
		return apperr.Backend("write blob", err)
	}
	return nil
}

func (s *FSStore) Open(ctx context.Context, p string) (io.ReadCloser, Metadata, error) {
	var meta Metadata
	if err := ctx.Err(); err != nil {
		return nil, meta, err
	}
	p, err := cleanPath(p)
	if err != nil {
		return nil, meta, err
	}
	f, err := s.fs.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, meta, apperr.NotFound("blob %s not found", p)
		}
		return nil, meta, apperr.Backend("open blob", err)
	}
	if raw, err := afero.ReadFile(s.fs, p+metaSuffix); err == nil {
		_ = json.Unmarshal(raw, &meta)
	}
	return f, meta, nil
}

func (s *FSStore) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := cleanPath(p)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperr.NotFound("blob %s not found", p)
		}
		return apperr.Backend("delete blob", err)
	}
	_ = s.fs.Remove(p + metaSuffix)
	return nil
}

func (s *FSStore) List(ctx context.Context, prefix string) ([]Object, error) {
	var out []Object
	root := strings.TrimSuffix(prefix, "/")
	if root == "" {
		root = "."
	}
	err := afero.Walk(s.fs, root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() || strings.HasSuffix(p, metaSuffix) {
			return nil
		}
		out = append(out, Object{Path: strings.TrimPrefix(path.Clean(p), "/"), Size: info.Size(), ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, apperr.Backend("list blobs", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
