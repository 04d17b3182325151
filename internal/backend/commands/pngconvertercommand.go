package commands

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jo-hoe/sialiccatalog/internal/backend/commandstructure"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const pngConverterName = "PngConverterCommand"

var pngSignature = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

func hasPngSignature(data []byte) bool {
	return len(data) >= len(pngSignature) && bytes.Equal(data[:len(pngSignature)], pngSignature)
}

// PngConverterCommand normalises compound images to PNG. Raster formats are
// decoded and re-encoded, SVG drawings are rasterised.
type PngConverterCommand struct {
	svgFallbackWidth  int
	svgFallbackHeight int
	background        color.Color
	reencodePNG       bool
}

// NewPngConverterCommand reads the optional parameters:
//   - svgFallbackWidth, svgFallbackHeight: SVG size when the drawing declares none
//   - background: SVG canvas colour, "white" (default), "transparent" or "#rrggbb"
//   - reencodePNG: decode and re-encode PNG input instead of passing it through
func NewPngConverterCommand(params map[string]any) (commandstructure.Command, error) {
	w := commandstructure.GetIntParam(params, "svgFallbackWidth", 512)
	h := commandstructure.GetIntParam(params, "svgFallbackHeight", 512)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("svg fallback size must be positive, got %dx%d", w, h)
	}
	background, err := parseBackground(commandstructure.GetStringParam(params, "background", "white"))
	if err != nil {
		return nil, err
	}
	return &PngConverterCommand{
		svgFallbackWidth:  w,
		svgFallbackHeight: h,
		background:        background,
		reencodePNG:       commandstructure.GetBoolParam(params, "reencodePNG", false),
	}, nil
}

func parseBackground(value string) (color.Color, error) {
	switch v := strings.ToLower(strings.TrimSpace(value)); {
	case v == "white":
		return color.White, nil
	case v == "transparent":
		return color.Transparent, nil
	case len(v) == 7 && v[0] == '#':
		rgb, err := strconv.ParseUint(v[1:], 16, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid background colour %q", value)
		}
		return color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}, nil
	default:
		return nil, fmt.Errorf("invalid background colour %q", value)
	}
}

func (c *PngConverterCommand) Name() string {
	return pngConverterName
}

func (c *PngConverterCommand) Execute(imageData []byte) ([]byte, error) {
	if hasPngSignature(imageData) && !c.reencodePNG {
		return imageData, nil
	}
	if isSVGData(imageData) {
		slog.Debug("PngConverterCommand: rasterising SVG", "input_size_bytes", len(imageData))
		return renderSVG(imageData, c.svgFallbackWidth, c.svgFallbackHeight, c.background)
	}

	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	slog.Debug("PngConverterCommand: re-encoding raster image",
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image to PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func init() {
	if err := commandstructure.DefaultRegistry.Register(pngConverterName, NewPngConverterCommand); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", pngConverterName, err))
	}
}
