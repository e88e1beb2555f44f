package present

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/phonecat/internal/catalog"
	"github.com/five82/phonecat/internal/state"
)

func samplePhone() catalog.Phone {
	return catalog.Phone{
		ID:                  "p1",
		Name:                "Galaxy S24 Ultra",
		Brand:               "Samsung",
		Description:         "Flagship with S Pen",
		Price:               1199.99,
		Rating:              4.7,
		ReviewCount:         12840,
		StorageGB:           256,
		RAMGB:               12,
		BatteryCapacity:     5000,
		ScreenSize:          6.8,
		UsageTypes:          []string{"Photography", "Business", "Photography"},
		Is5G:                true,
		HasWirelessCharging: true,
		ReleaseDate:         "2024-01-31",
	}
}

func TestMap_Loading(t *testing.T) {
	snap := state.Snapshot{Query: catalog.ListQuery(0, 20), Loading: true, Results: []catalog.Phone{samplePhone()}}
	v := Map(snap)
	assert.Equal(t, StatusLoading, v.Status)
	assert.Equal(t, LoadingMessage, v.Message)
	assert.Empty(t, v.Cards, "stale results hidden while loading")
}

func TestMap_EmptyIsNotAnError(t *testing.T) {
	snap := state.Snapshot{Query: catalog.Query{Mode: catalog.ModeBrand, Param: "Apple"}, Results: []catalog.Phone{}}
	v := Map(snap)
	assert.Equal(t, StatusEmpty, v.Status)
	assert.Equal(t, "No phones found. Try adjusting your search criteria.", v.Message)
	assert.Empty(t, v.Notice)
	assert.Equal(t, "Brand Apple", v.Caption)
}

func TestMap_GridPreservesOrder(t *testing.T) {
	a, b, c := samplePhone(), samplePhone(), samplePhone()
	a.ID, b.ID, c.ID = "c", "a", "b"
	v := Map(state.Snapshot{Query: catalog.ListQuery(0, 20), Results: []catalog.Phone{a, b, c}})

	require.Equal(t, StatusGrid, v.Status)
	require.Len(t, v.Cards, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{v.Cards[0].ID, v.Cards[1].ID, v.Cards[2].ID})
	assert.Equal(t, "3 phones", v.Count)
	assert.Empty(t, v.Message)
}

func TestNewCard(t *testing.T) {
	c := NewCard(samplePhone())

	assert.Equal(t, "$1,199.99", c.Price)
	assert.Equal(t, "★ 4.7", c.Rating)
	assert.Equal(t, "12,840 reviews", c.Reviews)
	assert.Equal(t, []Spec{
		{Label: "Storage", Value: "256GB"},
		{Label: "RAM", Value: "12GB"},
		{Label: "Battery", Value: "5,000mAh"},
		{Label: "Screen", Value: `6.8"`},
	}, c.Specs)
	assert.Equal(t, []string{"Photography", "Business", "Photography"}, c.UsageBadges, "no dedup, order kept")
	assert.Equal(t, []string{Badge5G, BadgeWirelessCharging}, c.FeatureBadges)
	assert.Equal(t, "Jan 2024", c.Released)
}

func TestNewCard_NoFeatures(t *testing.T) {
	p := samplePhone()
	p.Is5G, p.HasWirelessCharging, p.IsWaterResistant = false, false, false
	p.UsageTypes = []string{}
	c := NewCard(p)
	assert.Empty(t, c.FeatureBadges)
	assert.Empty(t, c.UsageBadges)

	p.IsWaterResistant = true
	assert.Equal(t, []string{BadgeWaterResistant}, NewCard(p).FeatureBadges)
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{1199.99, "USD", "$1,199.99"},
		{799, "", "$799.00"},
		{0, "", "$0.00"},
		{999.5, "eur", "€999.50"},
		{1234567.891, "USD", "$1,234,567.89"},
		{49, "CHF", "49.00 CHF"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.amount, tt.currency), "%v %s", tt.amount, tt.currency)
	}
}

func TestCaption(t *testing.T) {
	assert.Equal(t, "All phones · page 1", Caption(catalog.ListQuery(0, 20), nil))
	assert.Equal(t, "All phones · page 2/3", Caption(catalog.ListQuery(1, 20), &catalog.PageInfo{Number: 1, TotalPages: 3}))
	assert.Equal(t, `Search "Galaxy"`, Caption(catalog.Query{Mode: catalog.ModeSearch, Param: "Galaxy"}, nil))
	assert.Equal(t, "Type Gaming", Caption(catalog.Query{Mode: catalog.ModeType, Param: "Gaming"}, nil))
	assert.Equal(t, "Price $200–$800", Caption(catalog.Query{Mode: catalog.ModePriceRange, MinPrice: 200, MaxPrice: 800}, nil))
	assert.Equal(t, "Price $0–no limit", Caption(catalog.Query{Mode: catalog.ModePriceRange, MaxPrice: math.MaxFloat64}, nil))
	assert.Equal(t, "Price no limit–no limit", Caption(catalog.Query{Mode: catalog.ModePriceRange, MinPrice: math.NaN(), MaxPrice: math.Inf(1)}, nil))
}

func TestMap_NoticeAlongsideGrid(t *testing.T) {
	snap := state.Snapshot{
		Query:     catalog.Query{Mode: catalog.ModeType, Param: "Gaming"},
		Results:   []catalog.Phone{samplePhone()},
		LastError: &catalog.Error{Kind: catalog.ErrTransport, Err: errors.New("connection refused")},
	}
	v := Map(snap)
	assert.Equal(t, StatusGrid, v.Status)
	assert.Len(t, v.Cards, 1)
	assert.Equal(t, "Catalog service unreachable", v.Notice)
}

func TestNotice(t *testing.T) {
	assert.Empty(t, Notice(nil))
	assert.Equal(t, "Service error: invalid brand", Notice(&catalog.Error{Kind: catalog.ErrApplication, Message: "invalid brand"}))
	assert.Equal(t, "Service reported a failure", Notice(&catalog.Error{Kind: catalog.ErrApplication}))
	assert.Equal(t, "Unexpected response from the catalog service", Notice(&catalog.Error{Kind: catalog.ErrProtocol}))
	assert.Equal(t, "Request failed: boom", Notice(errors.New("boom")))
}

func TestMap_IsPure(t *testing.T) {
	snap := state.Snapshot{
		Query:   catalog.Query{Mode: catalog.ModeSearch, Param: "Galaxy"},
		Results: []catalog.Phone{samplePhone()},
	}
	first := Map(snap)
	second := Map(snap)
	assert.Equal(t, first, second)

	// Mutating the view must not reach back into the snapshot.
	first.Cards[0].UsageBadges[0] = "changed"
	assert.Equal(t, "Photography", snap.Results[0].UsageTypes[0])
}
