package pagination

import (
	"strconv"
	"strings"

	apperrors "safetrade/internal/errors"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params are the validated paging and ordering inputs of a list request.
type Params struct {
	Page      int
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// OrderBy renders a safe ORDER BY expression. SortBy is always a whitelisted column.
func (p Params) OrderBy() string {
	return p.SortBy + " " + p.SortOrder
}

// Options describes what a given endpoint accepts.
type Options struct {
	DefaultLimit int
	DefaultSort  string
	DefaultOrder string
	// Sortable maps API sort keys to database columns.
	Sortable map[string]string
}

// ParseFromRequest reads page, limit, sortBy and sortOrder from the query string.
func ParseFromRequest(c *fiber.Ctx, opts Options) (Params, error) {
	if opts.DefaultLimit == 0 {
		opts.DefaultLimit = DefaultLimit
	}
	if opts.DefaultOrder == "" {
		opts.DefaultOrder = "DESC"
	}

	var fields []apperrors.FieldError
	p := Params{Page: 1, Limit: opts.DefaultLimit, SortOrder: opts.DefaultOrder}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			fields = append(fields, apperrors.FieldError{Field: "page", Message: "page must be an integer greater than or equal to 1", Value: raw})
		} else {
			p.Page = page
		}
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxLimit {
			fields = append(fields, apperrors.FieldError{Field: "limit", Message: "limit must be an integer between 1 and 100", Value: raw})
		} else {
			p.Limit = limit
		}
	}

	if raw := c.Query("sortOrder"); raw != "" {
		order := strings.ToUpper(raw)
		if order != "ASC" && order != "DESC" {
			fields = append(fields, apperrors.FieldError{Field: "sortOrder", Message: "sortOrder must be one of [ASC, DESC]", Value: raw})
		} else {
			p.SortOrder = order
		}
	}

	sortKey := c.Query("sortBy", opts.DefaultSort)
	column, ok := opts.Sortable[sortKey]
	if !ok {
		fields = append(fields, apperrors.FieldError{Field: "sortBy", Message: "sortBy is not a sortable field", Value: sortKey})
	}
	p.SortBy = column

	if len(fields) > 0 {
		return Params{}, apperrors.Validation("Validation error", fields...)
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p, nil
}

// Meta is the pagination block of list responses.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func NewMeta(p Params, total int64) *Meta {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return &Meta{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}
}
