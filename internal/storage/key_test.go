package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKey(t *testing.T) {
	at := time.UnixMilli(1718000000123)

	tests := []struct {
		name     string
		original string
		want     string
	}{
		{name: "plain", original: "photo.jpg", want: "reviews/u1/p1/1718000000123_photo.jpg"},
		{name: "extension lower-cased", original: "Photo.JPG", want: "reviews/u1/p1/1718000000123_Photo.jpg"},
		{name: "spaces and unicode", original: "my café menu (1).png", want: "reviews/u1/p1/1718000000123_my_caf_menu_1.png"},
		{name: "path components dropped", original: `..\..\etc/passwd.txt`, want: "reviews/u1/p1/1718000000123_passwd.txt"},
		{name: "no extension", original: "README", want: "reviews/u1/p1/1718000000123_README"},
		{name: "only symbols", original: "@@@.pdf", want: "reviews/u1/p1/1718000000123_file.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := BuildKey("reviews", "u1", "p1", at, tt.original)
			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
			assert.True(t, strings.HasPrefix(key, ParentPrefix("reviews", "u1", "p1")))
		})
	}
}

func TestBuildKey_InvalidSegments(t *testing.T) {
	at := time.Now()

	_, err := BuildKey("", "u1", "p1", at, "a.png")
	assert.ErrorContains(t, err, "namespace")

	_, err = BuildKey("reviews", "u/1", "p1", at, "a.png")
	assert.ErrorContains(t, err, "owner id")

	_, err = BuildKey("reviews", "u1", " ", at, "a.png")
	assert.ErrorContains(t, err, "parent id")
}

func TestSanitizeFilename_CapsLength(t *testing.T) {
	name := SanitizeFilename(strings.Repeat("a", 200) + ".webp")
	assert.Equal(t, maxBaseNameLength+len(".webp"), len(name))
	assert.True(t, strings.HasSuffix(name, ".webp"))
}
