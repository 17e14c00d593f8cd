// Package render draws the social preview card served at /api/og.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/bimakw/ratemybags/internal/domain/metadata"
)

const (
	Width  = 1200
	Height = 630

	Title   = "RateMyBags"
	Tagline = "Rate and showcase your crypto portfolio"

	paddingX     = 60
	paddingY     = 40
	cardRadius   = 24
	lineSpacing  = 20
	titleSize    = 60
	subtitleSize = 32
	ratingSize   = 48
	reactionSize = 36
)

var (
	backgroundColor = color.RGBA{R: 0x1e, G: 0x1b, B: 0x4b, A: 0xff}
	cardColor       = color.White
	titleColor      = color.RGBA{R: 0x1e, G: 0x1b, B: 0x4b, A: 0xff}
	mutedColor      = color.RGBA{R: 0x4b, G: 0x55, B: 0x63, A: 0xff}
	textColor       = color.RGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff}
)

// Card is the content of a preview image
type Card struct {
	Address   string
	Rating    string
	Reactions string
}

type line struct {
	text  string
	face  font.Face
	font  *sfnt.Font
	color color.Color
}

// Renderer draws preview cards. Faces are not safe for concurrent use, so
// Render builds its own per call from the parsed fonts.
type Renderer struct {
	bold    *sfnt.Font
	regular *sfnt.Font
}

// NewRenderer parses the embedded Go fonts
func NewRenderer() (*Renderer, error) {
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	return &Renderer{bold: bold, regular: regular}, nil
}

// Render draws the card onto a new Width x Height image
func (r *Renderer) Render(card Card) (*image.RGBA, error) {
	lines, closeFaces, err := r.layout(card)
	if err != nil {
		return nil, err
	}
	defer closeFaces()

	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: backgroundColor}, image.Point{}, draw.Src)

	cardRect := image.Rect(paddingX, paddingY, Width-paddingX, Height-paddingY)
	draw.DrawMask(img, cardRect, &image.Uniform{C: cardColor}, image.Point{},
		&roundedRect{rect: cardRect, radius: cardRadius}, cardRect.Min, draw.Over)

	total := 0
	for i, l := range lines {
		total += l.face.Metrics().Height.Ceil()
		if i > 0 {
			total += lineSpacing
		}
	}

	y := cardRect.Min.Y + (cardRect.Dy()-total)/2
	for _, l := range lines {
		m := l.face.Metrics()
		text := printable(l.font, l.text)
		width := font.MeasureString(l.face, text).Ceil()
		d := &font.Drawer{
			Dst:  img,
			Src:  &image.Uniform{C: l.color},
			Face: l.face,
			Dot:  fixed.P((Width-width)/2, y+m.Ascent.Ceil()),
		}
		d.DrawString(text)
		y += m.Height.Ceil() + lineSpacing
	}

	return img, nil
}

// WritePNG renders the card and encodes it as PNG
func (r *Renderer) WritePNG(w io.Writer, card Card) error {
	img, err := r.Render(card)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

func (r *Renderer) layout(card Card) ([]line, func(), error) {
	var faces []font.Face
	closeFaces := func() {
		for _, f := range faces {
			f.Close()
		}
	}

	newFace := func(f *sfnt.Font, size float64) (font.Face, error) {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create font face: %w", err)
		}
		faces = append(faces, face)
		return face, nil
	}

	add := func(lines []line, text string, f *sfnt.Font, size float64, c color.Color) ([]line, error) {
		face, err := newFace(f, size)
		if err != nil {
			return nil, err
		}
		return append(lines, line{text: text, face: face, font: f, color: c}), nil
	}

	lines, err := add(nil, Title, r.bold, titleSize, titleColor)
	if err != nil {
		closeFaces()
		return nil, nil, err
	}

	if card.Address == "" {
		lines, err = add(lines, Tagline, r.regular, subtitleSize, mutedColor)
	} else {
		lines, err = add(lines, metadata.ShortAddress(card.Address), r.regular, subtitleSize, mutedColor)
		if err == nil && card.Rating != "" {
			lines, err = add(lines, fmt.Sprintf("Rating: %s/10", card.Rating), r.bold, ratingSize, textColor)
		}
		if err == nil && card.Reactions != "" {
			lines, err = add(lines, card.Reactions, r.regular, reactionSize, textColor)
		}
	}
	if err != nil {
		closeFaces()
		return nil, nil, err
	}

	return lines, closeFaces, nil
}

// printable drops runes the font has no glyph for, such as emoji
func printable(f *sfnt.Font, s string) string {
	var buf sfnt.Buffer
	var b strings.Builder
	for _, r := range s {
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// roundedRect is an alpha mask covering rect with rounded corners
type roundedRect struct {
	rect   image.Rectangle
	radius int
}

func (m *roundedRect) ColorModel() color.Model { return color.AlphaModel }

func (m *roundedRect) Bounds() image.Rectangle { return m.rect }

func (m *roundedRect) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(m.rect) {
		return color.Transparent
	}

	cx, cy := x, y
	r := m.radius
	switch {
	case x < m.rect.Min.X+r:
		cx = m.rect.Min.X + r
	case x >= m.rect.Max.X-r:
		cx = m.rect.Max.X - r - 1
	}
	switch {
	case y < m.rect.Min.Y+r:
		cy = m.rect.Min.Y + r
	case y >= m.rect.Max.Y-r:
		cy = m.rect.Max.Y - r - 1
	}

	dx, dy := x-cx, y-cy
	if dx*dx+dy*dy > r*r {
		return color.Transparent
	}
	return color.Opaque
}
