package storage

import (
	"image"
	"strings"
	"testing"

	"github.com/motorhall/motorhall/config"
	"github.com/stretchr/testify/require"
)

func createStorage(t *testing.T) *Storage {
	t.Helper()

	cfg := config.LoadConfig("../../")

	imageStorage, err := NewStorage(cfg.FileStorage)
	require.NoError(t, err)

	return imageStorage
}

func TestSignedUploadRejectsUnknownContentType(t *testing.T) {
	t.Parallel()

	imageStorage := createStorage(t)

	_, err := imageStorage.SignedUpload("report.pdf", "application/pdf")
	require.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestSignedUpload(t *testing.T) {
	t.Parallel()

	imageStorage := createStorage(t)

	target, err := imageStorage.SignedUpload("Front Left.PNG", "image/png")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(target.Key, "uploads/"))
	require.True(t, strings.HasSuffix(target.Key, "-front-left.png"))
	require.Contains(t, target.URL, target.Key)
	require.Contains(t, target.PublicURL, target.Key)
	require.Equal(t, int(signedUploadExpires.Seconds()), target.ExpiresIn)
}

func TestKeyFromPublicURL(t *testing.T) {
	t.Parallel()

	imageStorage := createStorage(t)

	key := "uploads/2026/08/example.jpg"

	publicURL := imageStorage.PublicURL(key)
	require.NotEmpty(t, publicURL)

	extracted, err := imageStorage.KeyFromPublicURL(publicURL)
	require.NoError(t, err)
	require.Equal(t, key, extracted)

	_, err = imageStorage.KeyFromPublicURL("https://elsewhere.example/other-bucket/example.jpg")
	require.Error(t, err)
}

func TestRemoveImagesSkipsForeignURLs(t *testing.T) {
	t.Parallel()

	imageStorage := createStorage(t)

	err := imageStorage.RemoveImages(testContext(t), []string{
		"https://elsewhere.example/other-bucket/example.jpg",
		"https://cdn.example.com/banner.png",
	})
	require.NoError(t, err)
}

func TestDownscaleBoundsWidthPreservingAspect(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(0, 0, 3200, 1600))

	dst := downscale(src, 1600)
	require.Equal(t, 1600, dst.Bounds().Dx())
	require.Equal(t, 800, dst.Bounds().Dy())
}

func TestDownscaleLeavesSmallImagesAlone(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(0, 0, 800, 600))

	require.Same(t, src, downscale(src, 1600))
}
