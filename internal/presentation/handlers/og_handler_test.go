package handlers

import (
	"image/png"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bimakw/ratemybags/internal/infrastructure/render"
	"github.com/bimakw/ratemybags/internal/testutil"
)

func TestOGHandler_GetImage(t *testing.T) {
	renderer, err := render.NewRenderer()
	require.NoError(t, err)
	router := newRouter(NewOGHandler(renderer, zap.NewNop()))

	for _, path := range []string{
		"/og",
		"/og?address=" + testutil.AliceAddress,
		"/og?address=" + testutil.AliceAddress + "&rating=8.5&reactions=%F0%9F%94%A5%203",
	} {
		t.Run(path, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodGet, path, nil)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

			img, err := png.Decode(rec.Body)
			require.NoError(t, err)
			assert.Equal(t, render.Width, img.Bounds().Dx())
			assert.Equal(t, render.Height, img.Bounds().Dy())
		})
	}
}
