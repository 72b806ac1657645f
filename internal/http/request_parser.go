package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"fintrack/internal/core"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// decodeJSON reads and decodes a request body, mapping every failure onto
// the invalid-input error so it surfaces as a 400.
func decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", core.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed JSON body: %v", core.ErrInvalidInput, err)
	}
	return nil
}

// parseIDPath reads the {id} path segment as a positive integer.
func parseIDPath(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid transaction id %q", core.ErrInvalidInput, raw)
	}
	return id, nil
}

// parseDateRange reads the startDate and endDate query parameters. Both are
// required by every ranged read.
func parseDateRange(r *http.Request) (from, to core.Date, err error) {
	q := r.URL.Query()
	rawFrom, rawTo := q.Get("startDate"), q.Get("endDate")
	if rawFrom == "" || rawTo == "" {
		return core.Date{}, core.Date{}, fmt.Errorf("%w: startDate and endDate are required", core.ErrInvalidInput)
	}

	if from, err = core.ParseDate(rawFrom); err != nil {
		return core.Date{}, core.Date{}, err
	}
	if to, err = core.ParseDate(rawTo); err != nil {
		return core.Date{}, core.Date{}, err
	}
	return from, to, nil
}

// parsePagination reads page and limit. Absent parameters come back as zero,
// which the report service resolves to its defaults.
func parsePagination(r *http.Request) (page, limit int, err error) {
	q := r.URL.Query()
	if raw := q.Get("page"); raw != "" {
		if page, err = strconv.Atoi(raw); err != nil {
			return 0, 0, fmt.Errorf("%w: invalid page %q", core.ErrInvalidInput, raw)
		}
	}
	if raw := q.Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			return 0, 0, fmt.Errorf("%w: invalid limit %q", core.ErrInvalidInput, raw)
		}
	}
	return page, limit, nil
}

// parseTypeFilter reads the optional type query parameter.
func parseTypeFilter(r *http.Request) *core.TransactionType {
	raw := r.URL.Query().Get("type")
	if raw == "" {
		return nil
	}
	typ := core.TransactionType(raw)
	return &typ
}

// parseCategoryFilter reads the optional categoryId query parameter.
func parseCategoryFilter(r *http.Request) (*int64, error) {
	raw := r.URL.Query().Get("categoryId")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return nil, fmt.Errorf("%w: invalid categoryId %q", core.ErrInvalidInput, raw)
	}
	return &id, nil
}

// parseIntParam reads one integer query parameter, zero when absent.
func parseIntParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", core.ErrInvalidInput, name, raw)
	}
	return n, nil
}
