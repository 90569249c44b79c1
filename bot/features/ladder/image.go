package ladder

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"

	"guildbot/domain/games"
)

// BoardStyle controls the rendered board geometry
type BoardStyle struct {
	ColumnGap float64
	RowHeight float64
	Padding   float64
	LabelSize float64
}

// DefaultBoardStyle is used for every board the bot posts
var DefaultBoardStyle = BoardStyle{
	ColumnGap: 70,
	RowHeight: 28,
	Padding:   40,
	LabelSize: 16,
}

// BoardRenderer draws ladder boards as PNG images
type BoardRenderer struct {
	style BoardStyle
	face  font.Face
}

// NewBoardRenderer parses the label font once
func NewBoardRenderer(style BoardStyle) (*BoardRenderer, error) {
	face, err := loadFont(gobold.TTF, style.LabelSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	return &BoardRenderer{style: style, face: face}, nil
}

// Size returns the image dimensions for a board with the given number of columns
func (r *BoardRenderer) Size(columns int) (width, height int) {
	width = int(2*r.style.Padding + float64(columns-1)*r.style.ColumnGap)
	height = int(2*r.style.Padding + float64(games.LadderRows+1)*r.style.RowHeight + 2*r.style.LabelSize)
	return width, height
}

// Render draws the board. A non-nil path reveals the winning slot; a non-empty one
// is also traced.
func (r *BoardRenderer) Render(l *games.Ladder, path []int) ([]byte, error) {
	width, height := r.Size(l.Columns)
	dc := gg.NewContext(width, height)

	dc.SetRGB(0.13, 0.14, 0.17)
	dc.Clear()
	dc.SetFontFace(r.face)

	top := r.style.Padding + r.style.LabelSize
	bottom := top + float64(games.LadderRows+1)*r.style.RowHeight

	// Column numbers
	dc.SetRGB(0.9, 0.9, 0.95)
	for col := 0; col < l.Columns; col++ {
		dc.DrawStringAnchored(fmt.Sprint(col+1), r.columnX(col), r.style.Padding, 0.5, 0.5)
	}

	// Rails and rungs
	dc.SetRGB(0.55, 0.57, 0.63)
	dc.SetLineWidth(4)
	for col := 0; col < l.Columns; col++ {
		dc.DrawLine(r.columnX(col), top, r.columnX(col), bottom)
	}
	dc.Stroke()
	for row, gaps := range l.Rungs {
		y := r.rowY(top, row)
		for gap, rung := range gaps {
			if rung {
				dc.DrawLine(r.columnX(gap), y, r.columnX(gap+1), y)
			}
		}
	}
	dc.Stroke()

	if len(path) > 0 {
		r.drawPath(dc, path, top, bottom)
	}

	// Bottom slots
	for col := 0; col < l.Columns; col++ {
		label := "✗"
		dc.SetRGB(0.5, 0.5, 0.55)
		if path == nil {
			label = "?"
		} else if col == l.WinningSlot {
			label = "★"
			dc.SetRGB(1, 0.84, 0)
		}
		dc.DrawStringAnchored(label, r.columnX(col), bottom+r.style.LabelSize+4, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode ladder image: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *BoardRenderer) drawPath(dc *gg.Context, path []int, top, bottom float64) {
	dc.SetRGB(0.34, 0.95, 0.53)
	dc.SetLineWidth(5)

	x := r.columnX(path[0])
	y := top
	dc.MoveTo(x, y)
	for row := 0; row+1 < len(path); row++ {
		rungY := r.rowY(top, row)
		dc.LineTo(x, rungY)
		x = r.columnX(path[row+1])
		dc.LineTo(x, rungY)
	}
	dc.LineTo(x, bottom)
	dc.Stroke()
}

func (r *BoardRenderer) columnX(col int) float64 {
	return r.style.Padding + float64(col)*r.style.ColumnGap
}

func (r *BoardRenderer) rowY(top float64, row int) float64 {
	return top + float64(row+1)*r.style.RowHeight
}

// loadFont loads a font from byte data
func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
