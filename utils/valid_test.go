package utils

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello  "))
	assert.Equal(t, "a &amp; b", SanitizeInput("a & b"))
	assert.Equal(t, "hello", SanitizeInput("hel\x00lo"))
	assert.NotContains(t, SanitizeInput("<script>alert(1)</script>hi"), "<script>")
}

func TestSanitizeEmail(t *testing.T) {
	email, err := SanitizeEmail("  Jane@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", email)

	_, err = SanitizeEmail("not-an-email")
	assert.Error(t, err)

	_, err = SanitizeEmail("jane@")
	assert.Error(t, err)
}

func TestIsValidImageFile(t *testing.T) {
	assert.True(t, IsValidImageFile(&multipart.FileHeader{Filename: "photo.JPG"}))
	assert.True(t, IsValidImageFile(&multipart.FileHeader{Filename: "photo.webp"}))
	assert.False(t, IsValidImageFile(&multipart.FileHeader{Filename: "video.mp4"}))
	assert.False(t, IsValidImageFile(&multipart.FileHeader{Filename: "archive.zip"}))
}

func TestValidateImageUpload(t *testing.T) {
	assert.NoError(t, ValidateImageUpload(&multipart.FileHeader{Filename: "a.png", Size: 1024}))
	assert.Error(t, ValidateImageUpload(&multipart.FileHeader{Filename: "a.png", Size: 6 * 1024 * 1024}))
	assert.Error(t, ValidateImageUpload(&multipart.FileHeader{Filename: "a.exe", Size: 1024}))
}

func TestIsValidObjectIDHex(t *testing.T) {
	assert.True(t, IsValidObjectIDHex("507f1f77bcf86cd799439011"))
	assert.False(t, IsValidObjectIDHex("507f1f77bcf86cd79943901"))
	assert.False(t, IsValidObjectIDHex("not-hex-at-all-not-hex-at"))
}
