package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcode-github/gharbari/backend/storage"
)

func TestPublicIDFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1712345678/abc_123.jpg", "abc_123"},
		{"https://res.cloudinary.com/demo/image/upload/v1/gharbari/properties/house-1.webp", "gharbari/properties/house-1"},
		{"http://res.cloudinary.com/demo/image/upload/v99/a-b.PNG", "a-b"},
	}
	for _, tc := range cases {
		got, err := storage.PublicIDFromURL(tc.url)
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.want, got)
	}
}

func TestPublicIDFromURL_Invalid(t *testing.T) {
	for _, url := range []string{
		"",
		"https://example.com/image.jpg",
		"https://res.cloudinary.com/demo/image/upload/abc.jpg",
		"https://res.cloudinary.com/demo/image/upload/v12/abc",
	} {
		_, err := storage.PublicIDFromURL(url)
		assert.Error(t, err, url)
	}
}
