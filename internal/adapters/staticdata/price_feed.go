package staticdata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
)

// priceRecord is one type's quote list in the snapshot file.
type priceRecord struct {
	TypeID int64 `json:"typeId"`
	Quotes []struct {
		UnitPrice    float64 `json:"unitPrice"`
		LocationKind string  `json:"locationKind"`
	} `json:"quotes"`
}

// SnapshotPriceFeed serves quotes from a pre-fetched price snapshot file.
// The planner never talks to a market API itself.
type SnapshotPriceFeed struct {
	quotes map[int64][]industry.PriceQuote
}

// LoadPriceFeed reads a snapshot file into memory.
func LoadPriceFeed(path string) (*SnapshotPriceFeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read price snapshot: %w", err)
	}

	var records []priceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse price snapshot: %w", err)
	}

	feed := &SnapshotPriceFeed{quotes: make(map[int64][]industry.PriceQuote, len(records))}
	for _, rec := range records {
		for _, q := range rec.Quotes {
			feed.quotes[rec.TypeID] = append(feed.quotes[rec.TypeID], industry.PriceQuote{
				UnitPrice:    q.UnitPrice,
				LocationKind: industry.PriceLocationKind(q.LocationKind),
			})
		}
	}
	return feed, nil
}

// NewPriceFeed builds a feed directly from quotes, for fixtures.
func NewPriceFeed(quotes map[int64][]industry.PriceQuote) *SnapshotPriceFeed {
	if quotes == nil {
		quotes = make(map[int64][]industry.PriceQuote)
	}
	return &SnapshotPriceFeed{quotes: quotes}
}

// QuotesFor returns the known quotes for a type; empty when unpriced.
func (f *SnapshotPriceFeed) QuotesFor(typeID int64) ([]industry.PriceQuote, error) {
	return f.quotes[typeID], nil
}
