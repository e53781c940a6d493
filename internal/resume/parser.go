package resume

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

// MaxUploadSize caps resume uploads.
const MaxUploadSize = 10 << 20

var ErrUnsupported = errors.New("unsupported file type")

// SupportedExtensions lists the file types ParseUpload accepts.
var SupportedExtensions = []string{".txt", ".pdf", ".docx", ".doc", ".rtf", ".odt"}

// ParseUpload extracts plain text from an uploaded resume. Text files are read
// as-is; office and PDF documents are converted with docconv.
func ParseUpload(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".txt":
		content, err := io.ReadAll(io.LimitReader(r, MaxUploadSize))
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		return strings.TrimSpace(string(content)), nil
	case ".pdf", ".docx", ".doc", ".rtf", ".odt":
		return convertDocument(ext, r)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// convertDocument spools the upload to disk because the converters for
// these formats work on files.
func convertDocument(ext string, r io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "resume-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, io.LimitReader(r, MaxUploadSize)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	res, err := docconv.ConvertPath(tmp.Name())
	if err != nil {
		return "", fmt.Errorf("failed to parse document: %w", err)
	}
	return strings.TrimSpace(res.Body), nil
}
