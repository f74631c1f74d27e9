/*
Package req provides helpers for parsing incoming backend requests.

It binds JSON bodies strictly and parses the path and paging parameters shared by
the list endpoints.
*/
package req

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"habitpet/internal/pkg/errs"
)

const (
	// MaxBodySize bounds JSON request bodies.
	MaxBodySize int64 = 1 << 20

	DefaultPageSize = 20
	MaxPageSize     = 100
)

// BindJSON decodes the JSON request body into dst, rejecting unknown fields.
// An empty body leaves dst untouched.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if r.ContentLength != 0 && !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

// PathID parses the named chi URL parameter as a positive integer ID.
func PathID(r *http.Request, name string) (int64, *errs.CustomError) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewError(errs.ErrInvalidParams, name+" must be a positive integer")
	}
	return id, nil
}

// Paging reads ?page= and ?size= with defaults. page is zero-based.
func Paging(r *http.Request) (page, size int) {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 0 {
		page = 0
	}

	size, err = strconv.Atoi(q.Get("size"))
	if err != nil || size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}
