package storage

import (
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestMIMEFromExtension(t *testing.T) {
	tests := map[string]string{
		"a.JPG":      "image/jpeg",
		"scan.pdf":   "application/pdf",
		"b.zip":      "application/zip",
		"song.mp3":   "audio/mpeg",
		"clip.mov":   "video/quicktime",
		"notes.txt":  "text/plain",
		"blob":       "application/octet-stream",
		"weird.xyz1": "application/octet-stream",
	}
	for name, want := range tests {
		assert.Equal(t, want, MIMEFromExtension(name), name)
	}
}

func TestClassify(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	pdf := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	assert.Equal(t, ResourceImage, Classify(png))
	assert.Equal(t, ResourceRaw, Classify(pdf))
	assert.Equal(t, ResourceRaw, Classify([]byte("plain text body")))
	assert.Equal(t, ResourceGeneric, Classify(nil))
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, []string{"image", "raw", "video", "generic"}, []string{
		ResourceTypes[0].String(), ResourceTypes[1].String(), ResourceTypes[2].String(), ResourceTypes[3].String(),
	})
	assert.Equal(t, "upload/reviews/k.png", AccessPublic.objectName("reviews/k.png"))
	assert.Equal(t, "private", AccessRestricted.String())
	assert.Equal(t, "authenticated", AccessAuthenticated.String())
}

func TestIsNotFoundErrorResponse(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}))
	assert.True(t, isNotFound(minio.ErrorResponse{StatusCode: http.StatusNotFound}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}))
}
