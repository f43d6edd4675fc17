package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"harmonic/internal/config"
	"harmonic/internal/models"
	"harmonic/internal/repository"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultCoverDir             = "./covers"
	DefaultCoverMaxUploadSizeMB = 10

	// CoverMaxSize bounds both dimensions of a stored cover.
	CoverMaxSize = 1024

	coverJPEGQuality = 82
	coverWebPQuality = 70
)

type UploadCoverInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

// CoverService stores media cover art content-addressed by SHA-256. Each
// upload is normalized to a bounded JPEG plus a WebP rendition on disk; the
// database row carries only the metadata.
type CoverService struct {
	repo               repository.CoverRepository
	coverDir           string
	maxUploadSizeBytes int64
}

func NewCoverService(repo repository.CoverRepository, cfg *config.Config) *CoverService {
	coverDir := DefaultCoverDir
	maxUploadSizeMB := DefaultCoverMaxUploadSizeMB

	if cfg != nil {
		if cfg.CoverDir != "" {
			coverDir = cfg.CoverDir
		}
		if cfg.ImageMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
		}
	}

	return &CoverService{
		repo:               repo,
		coverDir:           coverDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Upload validates, normalizes, and stores a cover image. Re-uploading the
// same bytes by the same user resolves to the existing record.
func (s *CoverService) Upload(ctx context.Context, in UploadCoverInput) (*models.CoverImage, error) {
	if in.UserID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedCoverMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if !isSupportedCoverFormat(format) {
		return nil, models.NewValidationError("Unsupported image format")
	}

	master := resizeToFit(decoded, CoverMaxSize, CoverMaxSize)

	encodedJPG, err := encodeJPEG(master, coverJPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	encodedWebP, err := encodeWebP(master, coverWebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	hash := buildCoverHash(in.UserID, encodedJPG)
	existing, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	jpgAbs := filepath.Join(s.coverDir, hash, "cover.jpg")
	webpAbs := filepath.Join(s.coverDir, hash, "cover.webp")

	if err := writeBytesToFile(jpgAbs, encodedJPG); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := writeBytesToFile(webpAbs, encodedWebP); err != nil {
		_ = os.Remove(jpgAbs)
		return nil, models.NewInternalError(err)
	}

	bounds := master.Bounds()
	record := &models.CoverImage{
		UserID:    in.UserID,
		Hash:      hash,
		Format:    "jpeg",
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		SizeBytes: int64(len(encodedJPG)),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		_ = os.Remove(jpgAbs)
		_ = os.Remove(webpAbs)
		return nil, err
	}

	return record, nil
}

// CoverURL is the canonical serving path for a stored cover.
func (s *CoverService) CoverURL(hash string) string {
	return fmt.Sprintf("/api/covers/%s", hash)
}

// ResolveForServing maps a hash to the on-disk rendition. preferWebP selects
// the WebP file when the client accepts it.
func (s *CoverService) ResolveForServing(ctx context.Context, hash string, preferWebP bool) (*models.CoverImage, string, error) {
	if !isValidCoverHash(hash) {
		return nil, "", models.NewValidationError("Invalid cover hash")
	}
	cover, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		return nil, "", err
	}
	if cover == nil {
		return nil, "", models.NewNotFoundError("Cover", hash)
	}

	name := "cover.jpg"
	if preferWebP {
		name = "cover.webp"
	}
	fullPath := filepath.Join(s.coverDir, hash, name)
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil, "", models.NewNotFoundError("Cover", hash)
		}
		return nil, "", models.NewInternalError(err)
	}
	return cover, fullPath, nil
}

// isValidCoverHash checks that the hash is strictly lowercase hex (SHA-256
// style). This prevents path traversal via crafted hash parameters.
func isValidCoverHash(hash string) bool {
	if len(hash) != 64 {
		return false
	}
	for _, c := range hash {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedCoverMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isSupportedCoverFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

// buildCoverHash prefixes the content hash with the uploader's ID, so two
// users uploading identical bytes get distinct records.
func buildCoverHash(userID uint, content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%d:", userID)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
