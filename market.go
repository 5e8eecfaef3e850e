package folio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/folioquant/folio/date"
)

// MarketData is an in-memory price table: one dated price history per ticker.
// It feeds valuations through Lookup and return series through Returns.
type MarketData struct {
	prices map[string]*date.History[float64]
}

// NewMarketData creates an empty price table.
func NewMarketData() *MarketData {
	return &MarketData{prices: make(map[string]*date.History[float64])}
}

// SetPrice records the price of one unit of an instrument on a date. A price
// already recorded on that date is overwritten.
func (m *MarketData) SetPrice(ticker string, on date.Date, price float64) {
	h, ok := m.prices[ticker]
	if !ok {
		h = &date.History[float64]{}
		m.prices[ticker] = h
	}
	h.Append(on, price)
}

// Price returns the price on a given day, falling back to the most recent
// prior price. It reports false when no price exists on or before that day.
func (m *MarketData) Price(ticker string, on date.Date) (float64, bool) {
	h, ok := m.prices[ticker]
	if !ok {
		return 0, false
	}
	return h.ValueAsOf(on)
}

// Lookup adapts the table to the PriceLookup capability used by snapshots.
func (m *MarketData) Lookup() PriceLookup {
	return m.Price
}

// Tickers returns the known tickers in sorted order.
func (m *MarketData) Tickers() []string {
	res := make([]string, 0, len(m.prices))
	for t := range m.prices {
		res = append(res, t)
	}
	sort.Strings(res)
	return res
}

// Returns derives the day-over-day return series of one instrument from its
// recorded prices within the range.
func (m *MarketData) Returns(ticker string, r date.Range) *ReturnSeries {
	var clipped date.History[float64]
	if h, ok := m.prices[ticker]; ok {
		for on, px := range h.Values() {
			if r.Contains(on) {
				clipped.Append(on, px)
			}
		}
	}
	return ReturnsFromValues(clipped)
}

// pricePoint is one line of the JSONL price file.
type pricePoint struct {
	Ticker string    `json:"ticker"`
	Date   date.Date `json:"date"`
	Price  float64   `json:"price"`
}

// DecodeMarketData reads a JSONL stream of price points into a table.
func DecodeMarketData(r io.Reader) (*MarketData, error) {
	m := NewMarketData()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var p pricePoint
		if err := json.Unmarshal(lineBytes, &p); err != nil {
			return nil, fmt.Errorf("could not decode price line %q: %w", string(lineBytes), err)
		}
		if p.Ticker == "" {
			return nil, fmt.Errorf("price line %q has no ticker", string(lineBytes))
		}
		m.SetPrice(p.Ticker, p.Date, p.Price)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return m, nil
}

// EncodeMarketData writes the table as JSONL, sorted by ticker then date, so
// encoding is canonical.
func EncodeMarketData(w io.Writer, m *MarketData) error {
	for _, ticker := range m.Tickers() {
		for on, px := range m.prices[ticker].Values() {
			data, err := json.Marshal(pricePoint{Ticker: ticker, Date: on, Price: px})
			if err != nil {
				return fmt.Errorf("failed to marshal price for %s: %w", ticker, err)
			}
			if _, err := w.Write(append(data, '\n')); err != nil {
				return fmt.Errorf("failed to write price: %w", err)
			}
		}
	}
	return nil
}
