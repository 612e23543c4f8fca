// Package policy enforces attachment count, size and type limits before any upload is attempted.
package policy

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"attachapi/internal/apperr"
)

// blockedExtensions are rejected regardless of any allow-list.
var blockedExtensions = map[string]struct{}{
	".exe": {}, ".bat": {}, ".cmd": {}, ".com": {},
	".scr": {}, ".pif": {}, ".msi": {}, ".dll": {},
}

// Violation codes carried by ViolationError.
const (
	CodeTooManyFiles    = "TOO_MANY_FILES"
	CodeBlockedType     = "BLOCKED_FILE_TYPE"
	CodeDisallowedType  = "DISALLOWED_FILE_TYPE"
	CodeEmptyFile       = "EMPTY_FILE"
	CodeFileTooLarge    = "FILE_TOO_LARGE"
	CodeTotalTooLarge   = "TOTAL_SIZE_TOO_LARGE"
	CodeMissingFilename = "MISSING_FILENAME"
)

// Policy is the per-call-site attachment configuration. Reviews and applications use different values.
type Policy struct {
	MaxCount       int
	MaxSizePerFile int64
	// MaxTotalSize caps the sum of all file sizes; zero disables the check.
	MaxTotalSize int64
	// AllowedExtensions are lower-case and include the leading dot.
	AllowedExtensions []string
	// AllowedMIMETypes is optional; when empty the declared MIME type is not checked.
	AllowedMIMETypes []string
}

// FileMeta is what the validator needs to know about one submitted file.
type FileMeta struct {
	Name     string
	MIMEType string
	Size     int64
}

// ViolationError describes the first policy rule a submission broke.
type ViolationError struct {
	Code  string
	File  string
	Limit int64
	msg   string
}

func (e *ViolationError) Error() string { return e.msg }

func violation(code, file string, limit int64, format string, args ...any) error {
	return apperr.Validation("policy.validate", &ViolationError{
		Code:  code,
		File:  file,
		Limit: limit,
		msg:   fmt.Sprintf(format, args...),
	})
}

// Validate checks files against p. It performs no I/O.
func Validate(files []FileMeta, p Policy) error {
	if len(files) > p.MaxCount {
		return violation(CodeTooManyFiles, "", int64(p.MaxCount), "at most %d files allowed, got %d", p.MaxCount, len(files))
	}

	var total int64
	for _, f := range files {
		if strings.TrimSpace(f.Name) == "" {
			return violation(CodeMissingFilename, "", 0, "file name is required")
		}
		ext := strings.ToLower(filepath.Ext(f.Name))
		if IsBlocked(f.Name) {
			return violation(CodeBlockedType, f.Name, 0, "file type %s is not allowed", ext)
		}
		if !slices.Contains(p.AllowedExtensions, ext) {
			return violation(CodeDisallowedType, f.Name, 0, "file type %q is not allowed", ext)
		}
		if len(p.AllowedMIMETypes) > 0 && f.MIMEType != "" && !slices.Contains(p.AllowedMIMETypes, baseMIME(f.MIMEType)) {
			return violation(CodeDisallowedType, f.Name, 0, "content type %q is not allowed", f.MIMEType)
		}
		if f.Size <= 0 {
			return violation(CodeEmptyFile, f.Name, 0, "file %s is empty", f.Name)
		}
		if p.MaxSizePerFile > 0 && f.Size > p.MaxSizePerFile {
			return violation(CodeFileTooLarge, f.Name, p.MaxSizePerFile, "file %s exceeds %d bytes", f.Name, p.MaxSizePerFile)
		}
		total += f.Size
	}

	if p.MaxTotalSize > 0 && total > p.MaxTotalSize {
		return violation(CodeTotalTooLarge, "", p.MaxTotalSize, "total upload size %d exceeds %d bytes", total, p.MaxTotalSize)
	}
	return nil
}

// IsBlocked reports whether name carries an executable extension.
func IsBlocked(name string) bool {
	_, ok := blockedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ViolationOf extracts the ViolationError from err, if any.
func ViolationOf(err error) (*ViolationError, bool) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		return nil, false
	}
	v, ok := ae.Err.(*ViolationError)
	return v, ok
}

func baseMIME(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
