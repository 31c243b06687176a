package catalog

import (
	"github.com/shopspring/decimal"
)

// Origin records where a product came from.
type Origin string

const (
	SourceRemote Origin = "remote"
	SourceCustom Origin = "custom"
)

// Product is a catalog entry, either fetched from the remote API or authored locally.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Source      Origin          `json:"source,omitempty"`
}

// IsCustom reports whether p was authored locally. Records persisted before
// provenance was tracked fall back to the id threshold.
func (p Product) IsCustom(threshold int64) bool {
	switch p.Source {
	case SourceCustom:
		return true
	case SourceRemote:
		return false
	}
	return p.ID > threshold
}
