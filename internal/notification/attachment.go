package notification

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxAttachmentSize is the advisory upload cap. The backend enforces its
// own limit; this check only spares the user a doomed upload.
const MaxAttachmentSize = 5 * 1024 * 1024

// allowedExtensions mirrors the backend's attachment extension allowlist.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".ppt":  true,
	".pptx": true,
	".zip":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ValidateAttachment checks the filename extension and size against the
// advisory client-side limits.
func ValidateAttachment(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf(
			"attachment type %q is not accepted (use pdf, doc, docx, ppt, pptx, zip, jpg, jpeg or png)",
			ext,
		)
	}
	if size > MaxAttachmentSize {
		return fmt.Errorf(
			"attachment is too large (%d bytes, max %d)", size, MaxAttachmentSize,
		)
	}
	return nil
}
