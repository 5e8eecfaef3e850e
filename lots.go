package folio

import (
	"fmt"

	"github.com/folioquant/folio/date"
)

// MatchingPolicy selects which open lots a sell consumes.
type MatchingPolicy int

const (
	// FIFO consumes the oldest lots first.
	FIFO MatchingPolicy = iota
	// LIFO consumes the newest lots first.
	LIFO
	// SpecificLot consumes the lots named by the sell transaction.
	SpecificLot
)

func (m MatchingPolicy) String() string {
	switch m {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	case SpecificLot:
		return "specific"
	default:
		return "unknown"
	}
}

// ParseMatchingPolicy parses a string into a MatchingPolicy.
func ParseMatchingPolicy(s string) (MatchingPolicy, error) {
	switch s {
	case "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	case "specific":
		return SpecificLot, nil
	default:
		return 0, fmt.Errorf("unknown matching policy: %q", s)
	}
}

// Lot represents a single purchase of an instrument, kept open until sells
// consume it. Cost is the total acquisition cost, fee included.
type Lot struct {
	ID       string
	Date     date.Date
	Quantity Quantity
	Cost     Money
}

// UnitCost returns the acquisition cost per unit.
func (l Lot) UnitCost() Money { return l.Cost.Div(l.Quantity) }

type lots []Lot

// open returns the total open quantity across all lots.
func (l lots) open() Quantity {
	var total Quantity
	for _, lt := range l {
		total = total.Add(lt.Quantity)
	}
	return total
}

// cost returns the total cost basis across all lots.
func (l lots) cost() Money {
	var total Money
	for _, lt := range l {
		total = total.Add(lt.Cost)
	}
	return total
}

// consume removes a quantity from the open lots according to the matching
// policy and returns the remaining lots together with the cost basis of the
// consumed shares. Partial consumption of a lot removes cost pro rata.
func (l lots) consume(quantity Quantity, policy MatchingPolicy, ids []string) (lots, Money, error) {
	if l.open().LessThan(quantity) {
		return nil, Money{}, fmt.Errorf("%w: selling %s with only %s open", ErrInsufficientPosition, quantity, l.open())
	}
	switch policy {
	case FIFO:
		return l.consumeOrdered(quantity, false)
	case LIFO:
		return l.consumeOrdered(quantity, true)
	case SpecificLot:
		return l.consumeSpecific(quantity, ids)
	default:
		return nil, Money{}, fmt.Errorf("unknown matching policy: %d", policy)
	}
}

// consumeOrdered consumes lots front to back, or back to front when reversed.
func (l lots) consumeOrdered(quantity Quantity, reversed bool) (lots, Money, error) {
	var sold Money
	remaining := make(lots, len(l))
	copy(remaining, l)

	index := func(i int) int { return i }
	if reversed {
		index = func(i int) int { return len(remaining) - 1 - i }
	}

	for i := 0; i < len(remaining) && quantity.IsPositive(); i++ {
		current := &remaining[index(i)]
		if current.Quantity.GreaterThan(quantity) {
			portion := current.Cost.Mul(quantity).Div(current.Quantity)
			sold = sold.Add(portion)
			current.Quantity = current.Quantity.Sub(quantity)
			current.Cost = current.Cost.Sub(portion)
			quantity = Q(0)
		} else {
			sold = sold.Add(current.Cost)
			quantity = quantity.Sub(current.Quantity)
			current.Quantity = Q(0)
		}
	}

	var kept lots
	for _, lt := range remaining {
		if !lt.Quantity.IsZero() {
			kept = append(kept, lt)
		}
	}
	return kept, sold, nil
}

// consumeSpecific consumes only the named lots, in the order given. The named
// lots must cover the full quantity sold.
func (l lots) consumeSpecific(quantity Quantity, ids []string) (lots, Money, error) {
	if len(ids) == 0 {
		return nil, Money{}, fmt.Errorf("specific-lot matching requires lot IDs")
	}
	byID := make(map[string]int, len(l))
	for i, lt := range l {
		byID[lt.ID] = i
	}

	var sold Money
	remaining := make(lots, len(l))
	copy(remaining, l)

	for _, id := range ids {
		if quantity.IsZero() {
			break
		}
		i, ok := byID[id]
		if !ok {
			return nil, Money{}, fmt.Errorf("unknown lot ID %q", id)
		}
		current := &remaining[i]
		if current.Quantity.IsZero() {
			return nil, Money{}, fmt.Errorf("lot %q named twice", id)
		}
		if current.Quantity.GreaterThan(quantity) {
			portion := current.Cost.Mul(quantity).Div(current.Quantity)
			sold = sold.Add(portion)
			current.Quantity = current.Quantity.Sub(quantity)
			current.Cost = current.Cost.Sub(portion)
			quantity = Q(0)
		} else {
			sold = sold.Add(current.Cost)
			quantity = quantity.Sub(current.Quantity)
			current.Quantity = Q(0)
		}
	}
	if quantity.IsPositive() {
		return nil, Money{}, fmt.Errorf("%w: named lots cover less than the quantity sold", ErrInsufficientPosition)
	}

	var kept lots
	for _, lt := range remaining {
		if !lt.Quantity.IsZero() {
			kept = append(kept, lt)
		}
	}
	return kept, sold, nil
}
