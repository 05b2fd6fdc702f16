package blob

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
)

// Asset is a compressed image ready to be stored.
type Asset struct {
	Name        string
	ContentType string
	Data        []byte
}

// Compressor normalizes raw uploads.
type Compressor interface {
	Compress(name string, data []byte) (Asset, error)
}

// WebPCompressor downscales to MaxEdge and re-encodes as WebP.
type WebPCompressor struct {
	MaxEdge int
	Quality int
}

func (c WebPCompressor) Compress(name string, data []byte) (Asset, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Asset{}, apperr.Validation("decode image %s: %v", name, err)
	}
	img = fit(img, c.MaxEdge)

	quality := c.Quality
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return Asset{}, apperr.Backend("encode webp", err)
	}
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	return Asset{Name: base + ".webp", ContentType: "image/webp", Data: buf.Bytes()}, nil
}

func fit(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxEdge <= 0 || (w <= maxEdge && h <= maxEdge) {
		return img
	}
	nw, nh := maxEdge, maxEdge
	if w >= h {
		nh = h * maxEdge / w
	} else {
		nw = w * maxEdge / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
