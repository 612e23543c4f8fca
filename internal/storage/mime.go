package storage

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const defaultMIMEType = "application/octet-stream"

var extensionMIMETypes = map[string]string{
	// images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".ico":  "image/x-icon",
	".heic": "image/heic",
	".avif": "image/avif",
	// documents
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".odt":  "application/vnd.oasis.opendocument.text",
	".ods":  "application/vnd.oasis.opendocument.spreadsheet",
	".rtf":  "application/rtf",
	// archives
	".zip": "application/zip",
	".rar": "application/vnd.rar",
	".7z":  "application/x-7z-compressed",
	".tar": "application/x-tar",
	".gz":  "application/gzip",
	// audio
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
	".aac":  "audio/aac",
	// video
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	// plain text
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".json": "application/json",
	".xml":  "application/xml",
}

// MIMEFromExtension maps the file extension of name to a MIME type.
// Client-declared content types are not trusted for stored objects.
func MIMEFromExtension(name string) string {
	if ct, ok := extensionMIMETypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return defaultMIMEType
}

// Classify sniffs body the way the store does for resource_type "auto".
func Classify(body []byte) ResourceType {
	if len(body) == 0 {
		return ResourceGeneric
	}
	detected := mimetype.Detect(body).String()
	switch {
	case strings.HasPrefix(detected, "image/"):
		return ResourceImage
	case strings.HasPrefix(detected, "video/"), strings.HasPrefix(detected, "audio/"):
		return ResourceVideo
	default:
		return ResourceRaw
	}
}
