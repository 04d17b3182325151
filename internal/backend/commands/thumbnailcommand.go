package commands

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	"github.com/jo-hoe/sialiccatalog/internal/backend/commandstructure"
	xdraw "golang.org/x/image/draw"
)

const thumbnailName = "ThumbnailCommand"

// ThumbnailCommand shrinks a PNG to at most width pixels wide, keeping the
// aspect ratio. Images already narrower are returned unchanged.
type ThumbnailCommand struct {
	width int
}

func NewThumbnailCommand(params map[string]any) (commandstructure.Command, error) {
	if err := commandstructure.ValidateRequiredParams(params, []string{"width"}); err != nil {
		return nil, err
	}
	width := commandstructure.GetIntParam(params, "width", 0)
	if width <= 0 {
		return nil, fmt.Errorf("width must be positive, got %v", params["width"])
	}
	return &ThumbnailCommand{width: width}, nil
}

func (c *ThumbnailCommand) Name() string {
	return thumbnailName
}

func (c *ThumbnailCommand) Execute(imageData []byte) ([]byte, error) {
	src, err := png.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG image: %w", err)
	}

	bounds := src.Bounds()
	if bounds.Dx() <= c.width {
		return imageData, nil
	}
	height := bounds.Dy() * c.width / bounds.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, c.width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	slog.Debug("ThumbnailCommand: scaled image",
		"original_width", bounds.Dx(),
		"original_height", bounds.Dy(),
		"width", c.width,
		"height", height)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

func init() {
	if err := commandstructure.DefaultRegistry.Register(thumbnailName, NewThumbnailCommand); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", thumbnailName, err))
	}
}
