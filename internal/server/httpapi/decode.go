package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/studiosite/internal/common"
	"github.com/go-chi/chi/v5"
)

// maxJSONBody bounds JSON request bodies; content sections are small.
const maxJSONBody = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: request body too large", common.ErrTooLarge)
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty request body", common.ErrValidation)
		}
		return fmt.Errorf("%w: malformed JSON: %v", common.ErrValidation, err)
	}
	return nil
}

func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", common.ErrValidation, raw)
	}
	return id, nil
}
