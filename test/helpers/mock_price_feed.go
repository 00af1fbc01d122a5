package helpers

import (
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
)

// FailingPriceFeed always errors, for exercising degraded price lookups.
type FailingPriceFeed struct {
	Err error
}

func (f *FailingPriceFeed) QuotesFor(int64) ([]industry.PriceQuote, error) {
	return nil, f.Err
}
