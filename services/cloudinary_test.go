package services

import (
	"bytes"
	"image"
	"image/color"
	"regexp"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignIsDeterministicHex(t *testing.T) {
	svc := &CloudinaryService{apiSecret: "secret"}
	params := map[string]string{
		"timestamp": "1700000000",
		"folder":    "profile_photos",
		"public_id": "abc",
	}

	first := svc.sign(params)
	second := svc.sign(params)

	assert.Equal(t, first, second)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{40}$`), first)

	other := &CloudinaryService{apiSecret: "different"}
	assert.NotEqual(t, first, other.sign(params))
}

func TestConfigured(t *testing.T) {
	assert.False(t, (&CloudinaryService{}).Configured())
	assert.True(t, (&CloudinaryService{
		cloudName: "demo", apiKey: "key", apiSecret: "secret",
	}).Configured())
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

func TestDownscaleImageShrinksOversized(t *testing.T) {
	big := imaging.New(3200, 800, color.NRGBA{R: 200, A: 255})
	data := encodeJPEG(t, big)

	out, err := downscaleImage(data)
	require.NoError(t, err)

	decoded, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	bounds := decoded.Bounds()
	assert.LessOrEqual(t, bounds.Dx(), maxImageDimension)
	assert.LessOrEqual(t, bounds.Dy(), maxImageDimension)
}

func TestDownscaleImageLeavesSmallAlone(t *testing.T) {
	small := imaging.New(400, 300, color.NRGBA{B: 120, A: 255})
	data := encodeJPEG(t, small)

	out, err := downscaleImage(data)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestDownscaleImageRejectsGarbage(t *testing.T) {
	_, err := downscaleImage([]byte("definitely not an image"))
	assert.Error(t, err)
}
