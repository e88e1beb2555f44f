package present

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/five82/phonecat/internal/catalog"
	"github.com/five82/phonecat/internal/state"
)

// Status selects which body the UI draws.
type Status int

const (
	StatusLoading Status = iota
	StatusEmpty
	StatusGrid
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusEmpty:
		return "empty"
	default:
		return "grid"
	}
}

const (
	LoadingMessage = "Loading phones..."
	EmptyMessage   = "No phones found. Try adjusting your search criteria."
)

// Feature badge labels, in display order.
const (
	Badge5G               = "5G"
	BadgeWaterResistant   = "Water Resistant"
	BadgeWirelessCharging = "Wireless Charging"
)

// View is everything the UI needs to draw one frame of the result surface.
type View struct {
	Status  Status
	Cards   []Card
	Message string // loading or empty text; blank for the grid
	Caption string // active query echo
	Count   string // "3 phones"
	Notice  string // last failure, shown alongside whatever is on screen
	Offline bool
}

// Card is the display form of one phone record.
type Card struct {
	ID            string
	Name          string
	Brand         string
	Description   string
	Price         string
	Rating        string
	Reviews       string
	Specs         []Spec
	UsageBadges   []string
	FeatureBadges []string
	Released      string
	ImageURL      string
}

// Spec is one labelled attribute line on a card.
type Spec struct {
	Label string
	Value string
}

// Map derives the view for snap. It reads nothing but its argument.
func Map(snap state.Snapshot) View {
	v := View{
		Caption: Caption(snap.Query, snap.Page),
		Offline: snap.IsOffline(),
	}
	if snap.LastError != nil {
		v.Notice = Notice(snap.LastError)
	}

	switch {
	case snap.Loading:
		v.Status = StatusLoading
		v.Message = LoadingMessage
	case len(snap.Results) == 0:
		v.Status = StatusEmpty
		v.Message = EmptyMessage
		v.Count = countLabel(0)
	default:
		v.Status = StatusGrid
		v.Cards = make([]Card, 0, len(snap.Results))
		for _, p := range snap.Results {
			v.Cards = append(v.Cards, NewCard(p))
		}
		v.Count = countLabel(len(snap.Results))
	}
	return v
}

// NewCard formats one phone record.
func NewCard(p catalog.Phone) Card {
	c := Card{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Description: p.Description,
		Price:       FormatPrice(p.Price, p.Currency),
		Rating:      "★ " + strconv.FormatFloat(p.Rating, 'f', 1, 64),
		Specs: []Spec{
			{Label: "Storage", Value: fmt.Sprintf("%dGB", p.StorageGB)},
			{Label: "RAM", Value: fmt.Sprintf("%dGB", p.RAMGB)},
			{Label: "Battery", Value: humanize.Comma(int64(p.BatteryCapacity)) + "mAh"},
			{Label: "Screen", Value: strconv.FormatFloat(p.ScreenSize, 'f', -1, 64) + `"`},
		},
		UsageBadges: append([]string{}, p.UsageTypes...),
		ImageURL:    p.ImageURL,
	}
	if p.ReviewCount > 0 {
		c.Reviews = humanize.Comma(int64(p.ReviewCount)) + " reviews"
	}
	if p.CameraCount > 0 {
		c.Specs = append(c.Specs, Spec{Label: "Cameras", Value: strconv.Itoa(p.CameraCount)})
	}
	if released := p.ParsedReleaseDate(); !released.IsZero() {
		c.Released = released.Format("Jan 2006")
	}

	c.FeatureBadges = []string{}
	if p.Is5G {
		c.FeatureBadges = append(c.FeatureBadges, Badge5G)
	}
	if p.IsWaterResistant {
		c.FeatureBadges = append(c.FeatureBadges, BadgeWaterResistant)
	}
	if p.HasWirelessCharging {
		c.FeatureBadges = append(c.FeatureBadges, BadgeWirelessCharging)
	}
	return c
}

var currencySymbols = map[string]string{
	"":    "$",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
}

// FormatPrice renders amount with digit grouping and two decimals, e.g.
// "$1,199.99". Unknown currency codes are appended instead of a symbol.
func FormatPrice(amount float64, currency string) string {
	cents := int64(math.Round(math.Abs(amount) * 100))
	digits := humanize.Comma(cents/100) + fmt.Sprintf(".%02d", cents%100)
	if amount < 0 {
		digits = "-" + digits
	}
	code := strings.ToUpper(strings.TrimSpace(currency))
	if sym, ok := currencySymbols[code]; ok {
		return sym + digits
	}
	return digits + " " + code
}

// Caption describes the active query the way the header shows it.
func Caption(q catalog.Query, page *catalog.PageInfo) string {
	switch q.Mode {
	case catalog.ModeSearch:
		return fmt.Sprintf("Search %q", q.Param)
	case catalog.ModeBrand:
		return "Brand " + q.Param
	case catalog.ModeType:
		return "Type " + q.Param
	case catalog.ModePriceRange:
		return fmt.Sprintf("Price %s–%s", wholePrice(q.MinPrice), wholePrice(q.MaxPrice))
	default:
		if page != nil && page.TotalPages > 0 {
			return fmt.Sprintf("All phones · page %d/%d", page.Number+1, page.TotalPages)
		}
		return fmt.Sprintf("All phones · page %d", q.Page+1)
	}
}

// maxExactPrice is the largest bound shown as a number; int64 conversion is
// exact below it.
const maxExactPrice = 1 << 53

func wholePrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || v >= maxExactPrice {
		return "no limit"
	}
	if v == math.Trunc(v) {
		return "$" + humanize.Comma(int64(v))
	}
	return FormatPrice(v, "")
}

// Notice summarizes a failure in one short line.
func Notice(err error) string {
	if err == nil {
		return ""
	}
	var fetchErr *catalog.Error
	if errors.As(err, &fetchErr) {
		switch {
		case errors.Is(err, catalog.ErrApplication) && fetchErr.Message != "":
			return "Service error: " + fetchErr.Message
		case errors.Is(err, catalog.ErrApplication):
			return "Service reported a failure"
		case errors.Is(err, catalog.ErrProtocol):
			return "Unexpected response from the catalog service"
		case errors.Is(err, catalog.ErrTransport):
			return "Catalog service unreachable"
		}
	}
	return "Request failed: " + err.Error()
}

func countLabel(n int) string {
	if n == 1 {
		return "1 phone"
	}
	return humanize.Comma(int64(n)) + " phones"
}
