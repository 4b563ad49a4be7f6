package image

import (
	"fmt"
	stdimage "image"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// Default terminal cell size in pixels, used when the terminal does
// not report pixel dimensions.
const (
	DefaultCellWidth  = 10
	DefaultCellHeight = 20
)

// Size returns the pixel dimensions of an image file.
func Size(path string) (w, h int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := stdimage.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return cfg.Width, cfg.Height, nil
}

// CellExtent converts pixel dimensions to the cell footprint an
// image occupies, clamped to maxCols columns (0 = no clamp). The
// aspect ratio is preserved when clamping.
func CellExtent(pxW, pxH, cellW, cellH, maxCols int) (cols, rows int) {
	if cellW <= 0 {
		cellW = DefaultCellWidth
	}
	if cellH <= 0 {
		cellH = DefaultCellHeight
	}

	cols = (pxW + cellW - 1) / cellW
	rows = (pxH + cellH - 1) / cellH
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	if maxCols > 0 && cols > maxCols {
		rows = rows * maxCols / cols
		if rows < 1 {
			rows = 1
		}
		cols = maxCols
	}
	return cols, rows
}

// FitWidth downscales a PNG in place when it is wider than maxWidth
// pixels. Images at or under the budget are left untouched.
func FitWidth(path string, maxWidth int) error {
	if maxWidth <= 0 {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	src, err := png.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	bounds := src.Bounds()
	if bounds.Dx() <= maxWidth {
		return nil
	}

	scaledH := bounds.Dy() * maxWidth / bounds.Dx()
	if scaledH < 1 {
		scaledH = 1
	}
	dst := stdimage.NewRGBA(stdimage.Rect(0, 0, maxWidth, scaledH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, dst)
}
