// Package uploads stores clinic and patient images on the local
// filesystem. It validates type and size, generates collision-resistant
// filenames, and exposes an Echo handler for multipart uploads. Stored
// files are served statically under /uploads/.
package uploads

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

var (
	ErrFileTooLarge   = errors.New("file exceeds maximum allowed size")
	ErrNotAnImage     = errors.New("only image files are accepted")
	ErrBadDataURL     = errors.New("malformed data URL")
	ErrMissingFile    = errors.New("file is required")
)

// MaxFileSize is the per-file upload limit (5 MB).
const MaxFileSize = 5 * 1024 * 1024

// Store is the contract for image persistence. Returned names are bare
// filenames; URL construction is the caller's responsibility.
type Store interface {
	SaveMultipart(field string, fh *multipart.FileHeader) (string, error)
	SaveDataURL(field, dataURL string) (string, error)
	Remove(name string) error
}

// FSStore writes images into a single directory on the local filesystem.
type FSStore struct {
	dir    string
	logger zerolog.Logger
}

// NewFSStore creates the directory if needed.
func NewFSStore(dir string, logger zerolog.Logger) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &FSStore{dir: dir, logger: logger}, nil
}

// Dir returns the directory files are written to.
func (s *FSStore) Dir() string { return s.dir }

// SaveMultipart validates and persists one uploaded file, returning the
// generated filename.
func (s *FSStore) SaveMultipart(field string, fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxFileSize {
		return "", ErrFileTooLarge
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	ext := filepath.Ext(fh.Filename)
	if ext == "" {
		ext = extForMIME(contentType)
	}
	name := generateName(field, ext)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(src, MaxFileSize+1))
	if err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if written > MaxFileSize {
		os.Remove(dst.Name())
		return "", ErrFileTooLarge
	}
	return name, nil
}

// SaveDataURL decodes a data:image/<type>;base64,<payload> string and
// persists it, for JSON-only clients that cannot send multipart.
func (s *FSStore) SaveDataURL(field, dataURL string) (string, error) {
	mediaType, payload, ok := splitDataURL(dataURL)
	if !ok {
		return "", ErrBadDataURL
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return "", ErrNotAnImage
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrBadDataURL
	}
	if len(data) > MaxFileSize {
		return "", ErrFileTooLarge
	}

	name := generateName(field, extForMIME(mediaType))
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return name, nil
}

// Remove deletes a stored file. Missing files are not an error; other
// failures are logged and swallowed so callers never fail a request over
// cleanup.
func (s *FSStore) Remove(name string) error {
	if name == "" {
		return nil
	}
	// Callers may hold "/uploads/x.png" paths from old rows.
	name = filepath.Base(name)
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		s.logger.Warn().Err(err).Str("file", name).Msg("upload removal failed")
	}
	return nil
}

// IsDataURL reports whether v looks like a base64 data URL rather than a
// stored filename.
func IsDataURL(v string) bool {
	return strings.HasPrefix(v, "data:")
}

func splitDataURL(dataURL string) (mediaType, payload string, ok bool) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", "", false
	}
	rest := dataURL[len("data:"):]
	semi := strings.Index(rest, ";base64,")
	if semi < 0 {
		return "", "", false
	}
	return rest[:semi], rest[semi+len(";base64,"):], true
}

func generateName(field, ext string) string {
	if field == "" {
		field = "file"
	}
	return fmt.Sprintf("%s-%d-%s%s", field, time.Now().UnixNano(), uuid.NewString(), ext)
}

func extForMIME(mediaType string) string {
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}

// Handler exposes the generic image upload endpoint.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts upload routes on the supplied group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/uploads", h.handleUpload)
}

func (h *Handler) handleUpload(c echo.Context) error {
	fh, err := c.FormFile("photo")
	if err != nil {
		fh, err = c.FormFile("file")
	}
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": ErrMissingFile.Error()})
	}

	name, err := h.store.SaveMultipart("photo", fh)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileTooLarge), errors.Is(err, ErrNotAnImage):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}
	return c.JSON(http.StatusCreated, map[string]string{"filename": name})
}
