package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/five82/phonecat/internal/catalog"
	"github.com/five82/phonecat/internal/state"
)

// Kind identifies a user intent.
type Kind int

const (
	KindDefault Kind = iota
	KindSearch
	KindBrand
	KindType
	KindPage
	KindPrice
)

// Intent is a user action that resolves to exactly one catalog query.
type Intent struct {
	Kind     Kind
	Text     string // search text, brand name or usage type
	Page     int
	MinPrice float64
	MaxPrice float64
}

// LoadDefault requests the first page of the unfiltered list.
func LoadDefault() Intent { return Intent{Kind: KindDefault} }

// Search requests a free-text search. Blank text falls back to LoadDefault.
func Search(text string) Intent { return Intent{Kind: KindSearch, Text: text} }

// FilterByBrand requests phones of one brand. The name is not validated.
func FilterByBrand(name string) Intent { return Intent{Kind: KindBrand, Text: name} }

// FilterByType requests phones tagged with one usage type. The tag is not validated.
func FilterByType(tag string) Intent { return Intent{Kind: KindType, Text: tag} }

// LoadPage requests a zero-based page of the unfiltered list.
func LoadPage(n int) Intent { return Intent{Kind: KindPage, Page: n} }

// FilterByPrice requests phones priced within [min, max].
func FilterByPrice(lo, hi float64) Intent {
	return Intent{Kind: KindPrice, MinPrice: lo, MaxPrice: hi}
}

// Resolve maps an intent to the catalog query it issues.
func Resolve(in Intent, pageSize int) catalog.Query {
	switch in.Kind {
	case KindSearch:
		text := strings.TrimSpace(norm.NFC.String(in.Text))
		if text == "" {
			return catalog.ListQuery(0, pageSize)
		}
		return catalog.Query{Mode: catalog.ModeSearch, Param: text}
	case KindBrand:
		return catalog.Query{Mode: catalog.ModeBrand, Param: in.Text}
	case KindType:
		return catalog.Query{Mode: catalog.ModeType, Param: in.Text}
	case KindPage:
		return catalog.ListQuery(in.Page, pageSize)
	case KindPrice:
		lo, hi := clampPrice(in.MinPrice), clampPrice(in.MaxPrice)
		if lo > hi {
			lo, hi = hi, lo
		}
		return catalog.Query{Mode: catalog.ModePriceRange, MinPrice: lo, MaxPrice: hi}
	default:
		return catalog.ListQuery(0, pageSize)
	}
}

// clampPrice maps a bound into [0, MaxFloat64]. NaN becomes 0.
func clampPrice(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	default:
		return v
	}
}

// NextPage returns the intent for the page after the one on screen. It
// reports false unless the unfiltered list is shown and another page exists.
func NextPage(snap state.Snapshot) (Intent, bool) {
	if snap.Query.Mode != catalog.ModeList || snap.Loading {
		return Intent{}, false
	}
	if snap.Page == nil {
		// Flat responses carry no page metadata; a full page suggests more.
		if len(snap.Results) < max(snap.Query.Size, 1) {
			return Intent{}, false
		}
	} else if !snap.Page.HasNext() {
		return Intent{}, false
	}
	return LoadPage(snap.Query.Page + 1), true
}

// PrevPage returns the intent for the page before the one on screen.
func PrevPage(snap state.Snapshot) (Intent, bool) {
	if snap.Query.Mode != catalog.ModeList || snap.Loading || snap.Query.Page <= 0 {
		return Intent{}, false
	}
	return LoadPage(snap.Query.Page - 1), true
}

// ParseIntent builds an intent from prompt input. Price input accepts
// "min-max", "-max" or a single maximum; "$" and "," are ignored.
func ParseIntent(kind Kind, raw string) (Intent, error) {
	switch kind {
	case KindSearch:
		return Search(raw), nil
	case KindBrand:
		return FilterByBrand(strings.TrimSpace(raw)), nil
	case KindType:
		return FilterByType(strings.TrimSpace(raw)), nil
	case KindPrice:
		lo, hi, err := parsePriceRange(raw)
		if err != nil {
			return Intent{}, err
		}
		return FilterByPrice(lo, hi), nil
	case KindPage:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Intent{}, fmt.Errorf("parse page %q: %w", raw, err)
		}
		// Pages are shown one-based.
		return LoadPage(n - 1), nil
	default:
		return LoadDefault(), nil
	}
}

func parsePriceRange(raw string) (float64, float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	if cleaned == "" {
		return 0, 0, fmt.Errorf("price range is empty")
	}
	lo, hi, found := strings.Cut(cleaned, "-")
	if !found {
		lo, hi = "", cleaned
	}
	var minPrice, maxPrice float64
	var err error
	if lo != "" {
		if minPrice, err = parsePrice(lo); err != nil {
			return 0, 0, fmt.Errorf("parse minimum price %q: %w", lo, err)
		}
	}
	if hi == "" {
		return 0, 0, fmt.Errorf("price range %q has no maximum", raw)
	}
	if maxPrice, err = parsePrice(hi); err != nil {
		return 0, 0, fmt.Errorf("parse maximum price %q: %w", hi, err)
	}
	return minPrice, maxPrice, nil
}

// parsePrice accepts finite numbers only.
func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return v, nil
}
