// Package view renders session snapshots as HTML.
package view

import (
	"github.com/nguyentranbao-ct/price-compare/internal/models"
	"github.com/nguyentranbao-ct/price-compare/pkg/util"
)

// Mode is which of the three page layouts a snapshot renders as.
type Mode string

const (
	ModePrompt  Mode = "prompt"
	ModeSpinner Mode = "spinner"
	ModeResults Mode = "results"
)

const refreshSeconds = 1

type Page struct {
	Title   string
	Query   string
	Loading bool
	// Refresh is the meta refresh delay in seconds, 0 when the page is settled.
	Refresh int
	Mode    Mode
	Notice  string
	Columns []Column
}

type Column struct {
	Provider string
	Label    string
	Loading  bool
	Failed   bool
	Reason   string
	Cards    []Card
}

type Card struct {
	Title  string
	Price  string
	Rating float64
	Image  string
	URL    string
}

// NewPage derives the page from a snapshot. notice is an optional message
// shown under the search form.
func NewPage(snap models.Snapshot, notice string) Page {
	p := Page{
		Title:   "Product Price Comparison",
		Query:   snap.Query,
		Loading: snap.Loading,
		Notice:  notice,
	}
	if snap.Loading {
		p.Refresh = refreshSeconds
	}

	switch {
	case !snap.AnyItems() && !snap.Loading:
		p.Mode = ModePrompt
	case !snap.AnyItems():
		p.Mode = ModeSpinner
	default:
		p.Mode = ModeResults
		p.Columns = util.ConvertList(snap.Results, newColumn)
	}
	return p
}

func newColumn(s models.ProviderState) Column {
	return Column{
		Provider: s.Provider,
		Label:    s.Label,
		Loading:  s.State.IsPending(),
		Failed:   s.State.Status == models.StatusFailed,
		Reason:   s.State.Reason,
		Cards:    util.ConvertList(s.State.Items, newCard),
	}
}

func newCard(p models.Product) Card {
	return Card{
		Title:  p.Title,
		Price:  p.Price,
		Rating: p.Rating,
		Image:  p.Image,
		URL:    p.URL,
	}
}
