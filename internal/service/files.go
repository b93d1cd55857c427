package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/assignamate/assignamate-api/internal/models"
)

// ErrFileTypeNotAllowed indicates the uploaded file's extension is outside the allow-list.
var ErrFileTypeNotAllowed = errors.New("file type not allowed")

// FileUploader abstracts pushing binary data into the content store. It
// returns the stored object name and a retrieval URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (storedName, url string, err error)
}

// storeAttachment runs the uploaded file through the allow-list, sniffs its
// content type, persists it via the uploader and returns the descriptor that
// gets embedded into the owning record.
func storeAttachment(ctx context.Context, uploader FileUploader, file *multipart.FileHeader, allowed []string) (models.FileMeta, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !extensionAllowed(ext, allowed) {
		return models.FileMeta{}, fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, ext)
	}

	contentType, err := detectContentType(file)
	if err != nil {
		return models.FileMeta{}, err
	}

	reader, err := file.Open()
	if err != nil {
		return models.FileMeta{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	storedName, url, err := uploader.Upload(ctx, file.Filename, reader)
	if err != nil {
		return models.FileMeta{}, fmt.Errorf("failed to upload file: %w", err)
	}

	return models.FileMeta{
		Filename:     storedName,
		OriginalName: file.Filename,
		Path:         url,
		Size:         file.Size,
		Mimetype:     contentType,
	}, nil
}

func extensionAllowed(ext string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, candidate := range allowed {
		if ext == candidate {
			return true
		}
	}
	return false
}

func detectContentType(file *multipart.FileHeader) (string, error) {
	reader, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return "", fmt.Errorf("failed to detect file type: %w", err)
	}

	return mime.String(), nil
}
