// Package coretest lays out a catalog workbook, an image directory and a
// download directory on disk for tests that start a full service.
package coretest

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jo-hoe/sialiccatalog/internal/backend/catalog/catalogtest"
)

type Fixture struct {
	CatalogPath  string
	ImageRoot    string
	DownloadRoot string
}

// ImageWidth is the width of every fixture image.
const ImageWidth = 64

// NewFixture writes the analogue workbook, a PNG for Neu5Ac only and a
// Neu5Ac.mol download.
func NewFixture(t *testing.T) Fixture {
	t.Helper()
	dir := t.TempDir()
	fixture := Fixture{
		CatalogPath:  catalogtest.WriteWorkbook(t, dir, catalogtest.Analogues()),
		ImageRoot:    filepath.Join(dir, "compound_images"),
		DownloadRoot: filepath.Join(dir, "sialic_acid_analog"),
	}
	for _, d := range []string{fixture.ImageRoot, fixture.DownloadRoot} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatalf("MkdirAll(%s) error: %v", d, err)
		}
	}
	writeFile(t, filepath.Join(fixture.ImageRoot, "Neu5Ac.PNG"), PNG(t, ImageWidth, ImageWidth/2))
	writeFile(t, filepath.Join(fixture.DownloadRoot, "Neu5Ac.mol"), []byte("Neu5Ac\n  molfile\n"))
	return fixture
}

// PNG encodes a solid w x h image.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode error: %v", err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
}
