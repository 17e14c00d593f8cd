package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

func TestRenderer_WritePNG_Dimensions(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	cases := []struct {
		name string
		card Card
	}{
		{name: "tagline only", card: Card{}},
		{name: "address", card: Card{Address: "0x1234567890abcdef1234567890abcdef12345678"}},
		{name: "full card", card: Card{
			Address:   "0x1234567890abcdef1234567890abcdef12345678",
			Rating:    "7.5",
			Reactions: "🔥 3 💎 2",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, r.WritePNG(&buf, tc.card))

			img, err := png.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, Width, img.Bounds().Dx())
			assert.Equal(t, Height, img.Bounds().Dy())
		})
	}
}

func TestRenderer_Render_Colors(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	img, err := r.Render(Card{})
	require.NoError(t, err)

	// corners outside the card keep the background
	assert.Equal(t, backgroundColor, img.RGBAAt(0, 0))
	assert.Equal(t, backgroundColor, img.RGBAAt(paddingX+1, paddingY+1))

	// inside the card, away from the text, is white
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, img.RGBAAt(paddingX+cardRadius, Height/2))
}

func TestPrintable_DropsMissingGlyphs(t *testing.T) {
	f, err := opentype.Parse(goregular.TTF)
	require.NoError(t, err)

	assert.Equal(t, "3 2", printable(f, "🔥 3 💎 2"))
	assert.Equal(t, "Rating: 5/10", printable(f, "Rating: 5/10"))
}

func TestRoundedRect_Corners(t *testing.T) {
	m := &roundedRect{rect: image.Rect(0, 0, 100, 100), radius: 10}

	assert.Equal(t, color.Transparent, m.At(0, 0))
	assert.Equal(t, color.Opaque, m.At(50, 50))
	assert.Equal(t, color.Opaque, m.At(10, 0))
	assert.Equal(t, color.Transparent, m.At(100, 50))
}
