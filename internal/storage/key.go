package storage

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const maxBaseNameLength = 80

var (
	disallowedNameRunes = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	disallowedExtRunes  = regexp.MustCompile(`[^a-z0-9]+`)
)

// BuildKey derives the storage key {namespace}/{ownerID}/{parentID}/{unixMillis}_{base}{ext}.
// All keys of one parent share the prefix returned by ParentPrefix.
func BuildKey(namespace, ownerID, parentID string, at time.Time, originalName string) (string, error) {
	for _, part := range [][2]string{{"namespace", namespace}, {"owner id", ownerID}, {"parent id", parentID}} {
		if strings.TrimSpace(part[1]) == "" || strings.Contains(part[1], "/") {
			return "", fmt.Errorf("invalid %s %q", part[0], part[1])
		}
	}
	return fmt.Sprintf("%s%d_%s", ParentPrefix(namespace, ownerID, parentID), at.UnixMilli(), SanitizeFilename(originalName)), nil
}

// ParentPrefix is the key prefix shared by every object of one parent record.
func ParentPrefix(namespace, ownerID, parentID string) string {
	return namespace + "/" + ownerID + "/" + parentID + "/"
}

// SanitizeFilename keeps the base name placeholder-safe and preserves the lower-cased extension.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	base = disallowedNameRunes.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._-")
	if len(base) > maxBaseNameLength {
		base = base[:maxBaseNameLength]
	}
	if base == "" {
		base = "file"
	}

	ext = disallowedExtRunes.ReplaceAllString(strings.ToLower(strings.TrimPrefix(ext, ".")), "")
	if ext == "" {
		return base
	}
	return base + "." + ext
}
