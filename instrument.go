package folio

import "fmt"

// Instrument describes a tradable asset declared in the ledger: its ticker,
// its currency, and a fixed set of optional classification tags used for
// allocation breakdowns.
type Instrument struct {
	ticker     string
	currency   string
	assetClass string
	sector     string
	strategy   string
}

// NewInstrument creates an instrument declaration.
func NewInstrument(ticker, currency string) Instrument {
	return Instrument{ticker: ticker, currency: currency}
}

// WithTags returns a copy of the instrument with classification tags set.
// Empty tags are reported as "unclassified" in allocation breakdowns.
func (i Instrument) WithTags(assetClass, sector, strategy string) Instrument {
	i.assetClass, i.sector, i.strategy = assetClass, sector, strategy
	return i
}

func (i Instrument) Ticker() string     { return i.ticker }
func (i Instrument) Currency() string   { return i.currency }
func (i Instrument) AssetClass() string { return i.assetClass }
func (i Instrument) Sector() string     { return i.sector }
func (i Instrument) Strategy() string   { return i.strategy }

func (i Instrument) String() string {
	return fmt.Sprintf("%s (%s)", i.ticker, i.currency)
}
