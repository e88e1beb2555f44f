package catalog

import (
	"fmt"
	"net/url"
	"strconv"
)

// Mode selects which catalog endpoint a Query targets.
type Mode int

const (
	ModeList Mode = iota
	ModeSearch
	ModeBrand
	ModeType
	ModePriceRange
)

// String returns a short label for the mode.
func (m Mode) String() string {
	switch m {
	case ModeList:
		return "list"
	case ModeSearch:
		return "search"
	case ModeBrand:
		return "brand"
	case ModeType:
		return "type"
	case ModePriceRange:
		return "price"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// DefaultPageSize is the page length requested for the unfiltered list.
const DefaultPageSize = 20

const apiPrefix = "/api/v1/phones"

// Query describes one outbound catalog request.
type Query struct {
	Mode  Mode
	Param string // search text, brand name or usage type; empty for list and price queries

	// List only.
	Page int
	Size int

	// Price range only.
	MinPrice float64
	MaxPrice float64
}

// ListQuery returns the list query for the given zero-based page.
func ListQuery(page, size int) Query {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return Query{Mode: ModeList, Page: page, Size: size}
}

// URL returns the relative request URL for the query. Parameters are
// URL-encoded here; callers pass raw values.
func (q Query) URL() *url.URL {
	switch q.Mode {
	case ModeSearch:
		values := url.Values{}
		values.Set("query", q.Param)
		return &url.URL{Path: apiPrefix + "/search", RawQuery: values.Encode()}
	case ModeBrand:
		return segmentURL("brand", q.Param)
	case ModeType:
		return segmentURL("type", q.Param)
	case ModePriceRange:
		values := url.Values{}
		values.Set("minPrice", formatPrice(q.MinPrice))
		values.Set("maxPrice", formatPrice(q.MaxPrice))
		return &url.URL{Path: apiPrefix + "/price-range", RawQuery: values.Encode()}
	default:
		size := q.Size
		if size <= 0 {
			size = DefaultPageSize
		}
		values := url.Values{}
		values.Set("page", strconv.Itoa(max(q.Page, 0)))
		values.Set("size", strconv.Itoa(size))
		return &url.URL{Path: apiPrefix, RawQuery: values.Encode()}
	}
}

// AcceptsPaginated reports whether the endpoint may answer with the
// paginated {content: [...]} data form. Only the list endpoint does.
func (q Query) AcceptsPaginated() bool {
	return q.Mode == ModeList
}

func segmentURL(kind, value string) *url.URL {
	prefix := apiPrefix + "/" + kind + "/"
	return &url.URL{
		Path:    prefix + value,
		RawPath: prefix + url.PathEscape(value),
	}
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
