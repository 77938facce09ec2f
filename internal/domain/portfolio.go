package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type PortfolioID string
type OrderID string
type PositionID string

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

type OrderType string

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
)

type Position struct {
	ID       PositionID      `json:"id"`
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Side     Side            `json:"side"`
}

type Order struct {
	ID          OrderID          `json:"id"`
	Symbol      string           `json:"symbol"`
	Quantity    decimal.Decimal  `json:"quantity"`
	PortfolioID PortfolioID      `json:"portfolio_id"`
	Side        Side             `json:"side"`
	Type        OrderType        `json:"order_type"`
	LimitPrice  *decimal.Decimal `json:"limit_price,omitempty"`
	// CreatedAt is kept verbatim; the server does not emit RFC 3339.
	CreatedAt string `json:"created_at"`
}

func (o Order) Clone() Order {
	if o.LimitPrice != nil {
		price := *o.LimitPrice
		o.LimitPrice = &price
	}
	return o
}

func (o Order) Validate() error {
	if strings.TrimSpace(o.Symbol) == "" {
		return fmt.Errorf("%w: symbol is required", ErrInvalidOrder)
	}
	if !o.Quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidOrder)
	}
	switch o.Side {
	case SideBuy, SideSell:
	default:
		return fmt.Errorf("%w: unsupported side %q", ErrInvalidOrder, o.Side)
	}
	switch o.Type {
	case OrderTypeMarket:
	case OrderTypeLimit:
		if o.LimitPrice == nil || !o.LimitPrice.IsPositive() {
			return fmt.Errorf("%w: limit orders need a positive limit price", ErrInvalidOrder)
		}
	default:
		return fmt.Errorf("%w: unsupported order type %q", ErrInvalidOrder, o.Type)
	}

	return nil
}

type Portfolio struct {
	ID        PortfolioID `json:"id"`
	Name      string      `json:"name"`
	OwnerID   UserID      `json:"owner_id"`
	IsPublic  bool        `json:"is_public"`
	Positions []Position  `json:"positions"`
	Orders    []Order     `json:"orders"`
}

func (p Portfolio) Clone() Portfolio {
	if p.Positions != nil {
		p.Positions = append([]Position(nil), p.Positions...)
	}
	if p.Orders != nil {
		orders := make([]Order, len(p.Orders))
		for i, order := range p.Orders {
			orders[i] = order.Clone()
		}
		p.Orders = orders
	}
	return p
}

// WithOrder returns a copy of p with order appended.
func (p Portfolio) WithOrder(order Order) Portfolio {
	next := p.Clone()
	next.Orders = append(next.Orders, order.Clone())
	return next
}

// WithoutOrder returns a copy of p without the order identified by id. The
// boolean reports whether such an order existed.
func (p Portfolio) WithoutOrder(id OrderID) (Portfolio, bool) {
	next := p.Clone()
	orders := make([]Order, 0, len(next.Orders))
	found := false
	for _, order := range next.Orders {
		if order.ID == id {
			found = true
			continue
		}
		orders = append(orders, order)
	}
	if !found {
		return p.Clone(), false
	}
	next.Orders = orders
	return next, true
}

func (p Portfolio) Order(id OrderID) (Order, bool) {
	for _, order := range p.Orders {
		if order.ID == id {
			return order.Clone(), true
		}
	}
	return Order{}, false
}

func (p Portfolio) Summary() PortfolioSummary {
	return PortfolioSummary{ID: p.ID, Name: p.Name}
}
