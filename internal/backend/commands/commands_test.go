package commands

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/jo-hoe/sialiccatalog/internal/backend/commandstructure"
)

func encodeTestImage(t *testing.T, w, h int, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		t.Fatalf("encode error: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(buf *bytes.Buffer, img image.Image) error { return png.Encode(buf, img) }

func encodeJPEG(buf *bytes.Buffer, img image.Image) error { return jpeg.Encode(buf, img, nil) }

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("expected PNG output, got decode error: %v", err)
	}
	return cfg.Width, cfg.Height
}

func TestRegisteredCommands(t *testing.T) {
	for _, name := range []string{"PngConverterCommand", "ThumbnailCommand"} {
		if !commandstructure.DefaultRegistry.IsRegistered(name) {
			t.Errorf("expected %s to be registered", name)
		}
	}
}

func TestPngConverterCommand_PassesPngThrough(t *testing.T) {
	command, err := NewPngConverterCommand(nil)
	if err != nil {
		t.Fatalf("NewPngConverterCommand error: %v", err)
	}
	input := encodeTestImage(t, 4, 4, encodePNG)

	out, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Error("expected PNG input to be returned unchanged")
	}
}

func TestPngConverterCommand_ConvertsJpeg(t *testing.T) {
	command, _ := NewPngConverterCommand(nil)

	out, err := command.Execute(encodeTestImage(t, 10, 6, encodeJPEG))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if w, h := decodeSize(t, out); w != 10 || h != 6 {
		t.Errorf("expected 10x6, got %dx%d", w, h)
	}
}

func TestPngConverterCommand_RendersSvg(t *testing.T) {
	command, _ := NewPngConverterCommand(map[string]any{"svgFallbackWidth": 32, "svgFallbackHeight": 16})
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 40 20"><rect x="0" y="0" width="40" height="20" fill="red"/></svg>`)

	out, err := command.Execute(svg)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if w, h := decodeSize(t, out); w != 40 || h != 20 {
		t.Errorf("expected 40x20 from viewBox, got %dx%d", w, h)
	}
}

func TestPngConverterCommand_SvgBackground(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 40 20"><rect x="0" y="0" width="10" height="10" fill="red"/></svg>`)

	cases := map[string]color.RGBA{
		"":            {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		"transparent": {},
		"#102030":     {R: 0x10, G: 0x20, B: 0x30, A: 0xff},
	}
	for background, want := range cases {
		params := map[string]any{}
		if background != "" {
			params["background"] = background
		}
		command, err := NewPngConverterCommand(params)
		if err != nil {
			t.Fatalf("NewPngConverterCommand(%v) error: %v", params, err)
		}
		out, err := command.Execute(svg)
		if err != nil {
			t.Fatalf("Execute error: %v", err)
		}
		img, err := png.Decode(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("png.Decode error: %v", err)
		}
		if got := color.RGBAModel.Convert(img.At(35, 15)).(color.RGBA); got != want {
			t.Errorf("background %q: corner pixel = %v, want %v", background, got, want)
		}
	}
}

func TestPngConverterCommand_InvalidBackground(t *testing.T) {
	for _, background := range []string{"red", "#12345", "#zzzzzz"} {
		if _, err := NewPngConverterCommand(map[string]any{"background": background}); err == nil {
			t.Errorf("expected error for background %q", background)
		}
	}
}

func TestPngConverterCommand_ReencodePNG(t *testing.T) {
	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.NoCompression}
	if err := encoder.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 12, 8))); err != nil {
		t.Fatalf("encode error: %v", err)
	}
	input := buf.Bytes()

	command, err := NewPngConverterCommand(map[string]any{"reencodePNG": "true"})
	if err != nil {
		t.Fatalf("NewPngConverterCommand error: %v", err)
	}
	out, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if bytes.Equal(out, input) {
		t.Error("expected PNG input to be re-encoded")
	}
	if w, h := decodeSize(t, out); w != 12 || h != 8 {
		t.Errorf("expected 12x8, got %dx%d", w, h)
	}
}

func TestPngConverterCommand_InvalidData(t *testing.T) {
	command, _ := NewPngConverterCommand(nil)
	if _, err := command.Execute([]byte("not an image")); err == nil {
		t.Error("expected error for invalid image data")
	}
}

func TestPngConverterCommand_InvalidFallback(t *testing.T) {
	if _, err := NewPngConverterCommand(map[string]any{"svgFallbackWidth": -1}); err == nil {
		t.Error("expected error for negative fallback width")
	}
}

func TestThumbnailCommand_Scales(t *testing.T) {
	command, err := NewThumbnailCommand(map[string]any{"width": "50"})
	if err != nil {
		t.Fatalf("NewThumbnailCommand error: %v", err)
	}

	out, err := command.Execute(encodeTestImage(t, 200, 100, encodePNG))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if w, h := decodeSize(t, out); w != 50 || h != 25 {
		t.Errorf("expected 50x25, got %dx%d", w, h)
	}
}

func TestThumbnailCommand_DoesNotUpscale(t *testing.T) {
	command, _ := NewThumbnailCommand(map[string]any{"width": 300})
	input := encodeTestImage(t, 20, 10, encodePNG)

	out, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Error("expected narrow image to be returned unchanged")
	}
}

func TestNewThumbnailCommand_InvalidParams(t *testing.T) {
	for _, params := range []map[string]any{nil, {"width": 0}, {"width": "wide"}} {
		if _, err := NewThumbnailCommand(params); err == nil {
			t.Errorf("expected error for params %v", params)
		}
	}
}

func TestPipeline_ConvertThenThumbnail(t *testing.T) {
	invoker, err := commandstructure.BuildInvoker(commandstructure.DefaultRegistry, []commandstructure.CommandConfig{
		{Name: "PngConverterCommand"},
		{Name: "ThumbnailCommand", Params: map[string]any{"width": 40}},
	})
	if err != nil {
		t.Fatalf("BuildInvoker error: %v", err)
	}
	out, err := invoker.Execute(encodeTestImage(t, 80, 40, encodeJPEG))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if w, h := decodeSize(t, out); w != 40 || h != 20 {
		t.Errorf("expected 40x20, got %dx%d", w, h)
	}
}
