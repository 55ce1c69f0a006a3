package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"

	"github.com/dmitrijs2005/studiosite/internal/common"
	"github.com/dmitrijs2005/studiosite/internal/filex"
	"github.com/dmitrijs2005/studiosite/internal/logging"
	"github.com/dmitrijs2005/studiosite/internal/server/models"
	"github.com/dmitrijs2005/studiosite/internal/server/storage"
	"github.com/dmitrijs2005/studiosite/internal/timex"
	"github.com/dustin/go-humanize"
)

type mediaKind int

const (
	kindImage mediaKind = iota + 1
	kindVideo
)

var allowedTypes = map[string]mediaKind{
	"image/jpeg":      kindImage,
	"image/png":       kindImage,
	"image/gif":       kindImage,
	"image/webp":      kindImage,
	"image/svg+xml":   kindImage,
	"video/mp4":       kindVideo,
	"video/webm":      kindVideo,
	"video/quicktime": kindVideo,
}

// UploadLimits caps the size of accepted files per media kind.
type UploadLimits struct {
	MaxImageSize int64
	MaxVideoSize int64
}

// UploadRequest is one incoming file. Size is the size the client declared;
// a negative value means unknown.
type UploadRequest struct {
	Body     io.Reader
	Size     int64
	MimeType string
	Name     string
}

// UploadService accepts images and videos and hands them to a storage backend.
type UploadService struct {
	backend storage.Backend
	limits  UploadLimits
	log     logging.Logger
	now     timex.Clock
	tempDir string
}

func NewUploadService(backend storage.Backend, limits UploadLimits, log logging.Logger) *UploadService {
	return &UploadService{backend: backend, limits: limits, log: log, now: timex.UTC}
}

// Limit returns the ceiling for mimeType, or common.ErrUnsupportedType.
func (s *UploadService) Limit(mimeType string) (int64, error) {
	mt := normalizeMimeType(mimeType)
	switch allowedTypes[mt] {
	case kindImage:
		return s.limits.MaxImageSize, nil
	case kindVideo:
		return s.limits.MaxVideoSize, nil
	default:
		return 0, fmt.Errorf("%w: %q", common.ErrUnsupportedType, mt)
	}
}

// MaxLimit is the largest ceiling of any accepted type.
func (s *UploadService) MaxLimit() int64 {
	return max(s.limits.MaxImageSize, s.limits.MaxVideoSize)
}

// Store checks type and size, then persists the file under a unique name.
// The size ceiling is enforced on the declared size and again on the bytes
// actually read.
func (s *UploadService) Store(ctx context.Context, req UploadRequest) (*models.UploadedAsset, error) {
	mt := normalizeMimeType(req.MimeType)
	limit, err := s.Limit(mt)
	if err != nil {
		return nil, err
	}
	if req.Size > limit {
		return nil, tooLarge(limit)
	}

	spool, err := os.CreateTemp(s.tempDir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	defer func() {
		_ = spool.Close()
		_ = os.Remove(spool.Name())
	}()

	src := &readErrRecorder{r: io.LimitReader(req.Body, limit+1)}
	n, err := io.Copy(spool, src)
	if err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.As(err, &mbe):
			return nil, fmt.Errorf("read upload: %w", err)
		case src.err != nil:
			return nil, fmt.Errorf("%w: read upload: %w", common.ErrValidation, err)
		default:
			return nil, fmt.Errorf("%w: spool upload: %w", common.ErrStorage, err)
		}
	}
	if n > limit {
		return nil, tooLarge(limit)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: empty file", common.ErrValidation)
	}
	if _, err := spool.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	key, err := s.storedName(req.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	url, err := s.backend.Put(ctx, key, spool, n, mt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	s.log.Info(ctx, "file uploaded", "file", key, "size", humanize.IBytes(uint64(n)), "type", mt)

	return &models.UploadedAsset{
		StoredFilename: key,
		OriginalName:   req.Name,
		SizeBytes:      n,
		MimeType:       mt,
		URL:            url,
	}, nil
}

// storedName builds <unix-millis>-<8 hex>-<sanitized original>.
func (s *UploadService) storedName(original string) (string, error) {
	suffix, err := common.MakeRandHexString(4)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%s-%s", s.now().UnixMilli(), suffix, filex.SanitizeName(original)), nil
}

func normalizeMimeType(v string) string {
	mt, _, err := mime.ParseMediaType(v)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(v))
	}
	return mt
}

func tooLarge(limit int64) error {
	return fmt.Errorf("%w: limit is %s", common.ErrTooLarge, humanize.IBytes(uint64(limit)))
}

// readErrRecorder remembers a failure on the client side of a copy, so it
// can be told apart from a spool write failure.
type readErrRecorder struct {
	r   io.Reader
	err error
}

func (e *readErrRecorder) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err != nil && err != io.EOF {
		e.err = err
	}
	return n, err
}
