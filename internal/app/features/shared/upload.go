// internal/app/features/shared/upload.go
package shared

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

// MaxImageUpload caps multipart image bodies at 10 MB.
const MaxImageUpload = 10 << 20

// SaveImage stores an uploaded image under prefix/YYYY/MM/uuid-filename
// and returns the storage path.
func SaveImage(ctx context.Context, store storage.Store, prefix string, file multipart.File, header *multipart.FileHeader) (string, error) {
	now := time.Now().UTC()
	dateDir := fmt.Sprintf("%s/%04d/%02d", prefix, now.Year(), now.Month())
	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(header.Filename))
	path := filepath.ToSlash(filepath.Join(dateDir, uniqueName))

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	opts := &storage.PutOptions{ContentType: contentType}
	if err := store.Put(ctx, path, file, opts); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return path, nil
}

// ImageFromRequest pulls the "image" part from a multipart form.
// Returns nil file when the part is absent, which callers treat as
// "no image supplied".
func ImageFromRequest(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(MaxImageUpload); err != nil {
		return nil, nil, err
	}
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return file, header, nil
}

// DrainAndClose tidies a multipart file after upload.
func DrainAndClose(f multipart.File) {
	if f == nil {
		return
	}
	_, _ = io.Copy(io.Discard, f)
	_ = f.Close()
}

// sanitizeFilename removes or replaces characters that could be
// problematic in filenames.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
