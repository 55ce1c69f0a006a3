package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/studiosite/internal/common"
	"github.com/dmitrijs2005/studiosite/internal/server/services"
)

// multipartOverhead allows for boundaries and part headers on top of the
// largest accepted file.
const multipartOverhead = 1 << 20

type uploadResponse struct {
	Success        bool   `json:"success"`
	URL            string `json:"url"`
	StoredFilename string `json:"storedFilename"`
	Size           int64  `json:"size"`
	MimeType       string `json:"mimeType"`
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	limit := s.uploads.MaxLimit() + multipartOverhead
	if r.ContentLength > limit {
		s.fail(w, r, fmt.Errorf("%w: request body too large", common.ErrTooLarge))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	mr, err := r.MultipartReader()
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: expected multipart/form-data: %v", common.ErrValidation, err))
		return
	}

	part, err := nextFilePart(mr)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer part.Close()

	asset, err := s.uploads.Store(r.Context(), services.UploadRequest{
		Body:     part,
		Size:     -1,
		MimeType: part.Header.Get("Content-Type"),
		Name:     part.FileName(),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	uploadedBytes.WithLabelValues(asset.MimeType).Add(float64(asset.SizeBytes))
	writeJSON(w, http.StatusOK, uploadResponse{
		Success:        true,
		URL:            asset.URL,
		StoredFilename: asset.StoredFilename,
		Size:           asset.SizeBytes,
		MimeType:       asset.MimeType,
	})
}

// nextFilePart skips form fields until the upload field.
func nextFilePart(mr *multipart.Reader) (*multipart.Part, error) {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no file uploaded", common.ErrValidation)
		}
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, fmt.Errorf("%w: request body too large", common.ErrTooLarge)
			}
			return nil, fmt.Errorf("%w: malformed multipart body: %v", common.ErrValidation, err)
		}
		if part.FormName() == common.UploadFormField && part.FileName() != "" {
			return part, nil
		}
		_ = part.Close()
	}
}
