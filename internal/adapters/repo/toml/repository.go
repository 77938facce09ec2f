package toml

import (
	"context"
	"errors"
	"fmt"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"

	"github.com/bnema/tradedesk/internal/domain"
	"github.com/bnema/tradedesk/internal/ports"
)

const DefaultSnapshotKey = "tradedesk/session.toml"

// SnapshotRepository stores the session state as one versioned TOML
// document under a fixed blob key.
type SnapshotRepository struct {
	blobs ports.BlobStore
	key   string
}

var _ ports.SnapshotRepository = (*SnapshotRepository)(nil)

func NewSnapshotRepository(blobs ports.BlobStore, key string) *SnapshotRepository {
	if key == "" {
		key = DefaultSnapshotKey
	}

	return &SnapshotRepository{blobs: blobs, key: key}
}

func (r *SnapshotRepository) Load(ctx context.Context) (domain.SessionState, error) {
	if err := ctx.Err(); err != nil {
		return domain.SessionState{}, err
	}

	data, err := r.blobs.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, domain.ErrBlobNotFound) {
			return domain.SessionState{}, fmt.Errorf("load session snapshot: %w", domain.ErrSnapshotNotFound)
		}
		return domain.SessionState{}, fmt.Errorf("read session snapshot: %w", err)
	}

	return DecodeSnapshot(data)
}

func (r *SnapshotRepository) Save(ctx context.Context, state domain.SessionState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := EncodeSnapshot(state)
	if err != nil {
		return err
	}

	if err := r.blobs.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("write session snapshot: %w", err)
	}

	return nil
}

// Clear removes the stored snapshot.
func (r *SnapshotRepository) Clear(ctx context.Context) error {
	if err := r.blobs.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("delete session snapshot: %w", err)
	}
	return nil
}

// EncodeSnapshot renders state as a TOML document. The output is
// deterministic for a given state.
func EncodeSnapshot(state domain.SessionState) ([]byte, error) {
	file := toSchema(state)
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("encode session snapshot: %w", err)
	}

	return data, nil
}

// DecodeSnapshot parses a document produced by EncodeSnapshot. Empty
// positions, orders and portfolio lists decode as nil.
func DecodeSnapshot(data []byte) (domain.SessionState, error) {
	var file snapshotSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.SessionState{}, fmt.Errorf("decode session snapshot: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return domain.SessionState{}, err
	}
	file.applyDefaults()

	state, err := fromSchema(file)
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("decode session snapshot: %w", err)
	}

	return state, nil
}

func toSchema(state domain.SessionState) snapshotSchema {
	file := snapshotSchema{
		Version: currentSchemaVersion,
		Loading: state.Loading,
	}
	if state.Token != nil {
		token := *state.Token
		file.Token = &token
	}
	if state.TokenExpiry != nil {
		file.TokenExpiry = formatTime(*state.TokenExpiry)
	}
	if state.User != nil {
		file.User = toUserSchema(*state.User)
	}
	if state.ActivePortfolio != nil {
		file.ActivePortfolio = toPortfolioSchema(*state.ActivePortfolio)
	}
	if state.AvailableSymbols != nil {
		file.SymbolsLoaded = true
		file.Symbols = make([]symbolSchema, 0, len(state.AvailableSymbols))
		for _, symbol := range state.AvailableSymbols {
			file.Symbols = append(file.Symbols, symbolSchema{Ticker: symbol.Ticker, Name: symbol.Name, Logo: symbol.Logo})
		}
	}

	return file
}

func fromSchema(file snapshotSchema) (domain.SessionState, error) {
	state := domain.SessionState{Loading: file.Loading}
	if file.Token != nil {
		token := *file.Token
		state.Token = &token
	}
	if file.TokenExpiry != "" {
		expiry, err := parseTime(file.TokenExpiry)
		if err != nil {
			return domain.SessionState{}, fmt.Errorf("token expiry: %w", err)
		}
		state.TokenExpiry = &expiry
	}
	if file.User != nil {
		user := fromUserSchema(*file.User)
		state.User = &user
	}
	if file.ActivePortfolio != nil {
		portfolio, err := fromPortfolioSchema(*file.ActivePortfolio)
		if err != nil {
			return domain.SessionState{}, err
		}
		state.ActivePortfolio = &portfolio
	}
	if file.SymbolsLoaded {
		state.AvailableSymbols = make([]domain.Symbol, 0, len(file.Symbols))
		for _, symbol := range file.Symbols {
			state.AvailableSymbols = append(state.AvailableSymbols, domain.Symbol{Ticker: symbol.Ticker, Name: symbol.Name, Logo: symbol.Logo})
		}
	}

	return state, nil
}

func toUserSchema(user domain.User) *userSchema {
	out := &userSchema{
		ID:       string(user.ID),
		Username: user.Username,
		Email:    user.Email,
		Disabled: user.Disabled,
	}
	for _, summary := range user.Portfolios {
		out.Portfolios = append(out.Portfolios, portfolioSummarySchema{ID: string(summary.ID), Name: summary.Name})
	}
	return out
}

func fromUserSchema(user userSchema) domain.User {
	out := domain.User{
		ID:       domain.UserID(user.ID),
		Username: user.Username,
		Email:    user.Email,
		Disabled: user.Disabled,
	}
	for _, summary := range user.Portfolios {
		out.Portfolios = append(out.Portfolios, domain.PortfolioSummary{ID: domain.PortfolioID(summary.ID), Name: summary.Name})
	}
	return out
}

func toPortfolioSchema(portfolio domain.Portfolio) *portfolioSchema {
	out := &portfolioSchema{
		ID:       string(portfolio.ID),
		Name:     portfolio.Name,
		OwnerID:  string(portfolio.OwnerID),
		IsPublic: portfolio.IsPublic,
	}
	for _, position := range portfolio.Positions {
		out.Positions = append(out.Positions, positionSchema{
			ID:       string(position.ID),
			Symbol:   position.Symbol,
			Quantity: formatDecimal(position.Quantity),
			Price:    formatDecimal(position.Price),
			Side:     string(position.Side),
		})
	}
	for _, order := range portfolio.Orders {
		encoded := orderSchema{
			ID:          string(order.ID),
			Symbol:      order.Symbol,
			Quantity:    formatDecimal(order.Quantity),
			PortfolioID: string(order.PortfolioID),
			Side:        string(order.Side),
			Type:        string(order.Type),
			CreatedAt:   order.CreatedAt,
		}
		if order.LimitPrice != nil {
			encoded.LimitPrice = formatDecimal(*order.LimitPrice)
		}
		out.Orders = append(out.Orders, encoded)
	}
	return out
}

func fromPortfolioSchema(portfolio portfolioSchema) (domain.Portfolio, error) {
	out := domain.Portfolio{
		ID:       domain.PortfolioID(portfolio.ID),
		Name:     portfolio.Name,
		OwnerID:  domain.UserID(portfolio.OwnerID),
		IsPublic: portfolio.IsPublic,
	}
	for _, position := range portfolio.Positions {
		quantity, err := parseDecimal(position.Quantity)
		if err != nil {
			return domain.Portfolio{}, fmt.Errorf("position %s quantity: %w", position.ID, err)
		}
		price, err := parseDecimal(position.Price)
		if err != nil {
			return domain.Portfolio{}, fmt.Errorf("position %s price: %w", position.ID, err)
		}
		out.Positions = append(out.Positions, domain.Position{
			ID:       domain.PositionID(position.ID),
			Symbol:   position.Symbol,
			Quantity: quantity,
			Price:    price,
			Side:     domain.Side(position.Side),
		})
	}
	for _, order := range portfolio.Orders {
		quantity, err := parseDecimal(order.Quantity)
		if err != nil {
			return domain.Portfolio{}, fmt.Errorf("order %s quantity: %w", order.ID, err)
		}
		decoded := domain.Order{
			ID:          domain.OrderID(order.ID),
			Symbol:      order.Symbol,
			Quantity:    quantity,
			PortfolioID: domain.PortfolioID(order.PortfolioID),
			Side:        domain.Side(order.Side),
			Type:        domain.OrderType(order.Type),
			CreatedAt:   order.CreatedAt,
		}
		if order.LimitPrice != "" {
			limit, err := parseDecimal(order.LimitPrice)
			if err != nil {
				return domain.Portfolio{}, fmt.Errorf("order %s limit price: %w", order.ID, err)
			}
			decoded.LimitPrice = &limit
		}
		out.Orders = append(out.Orders, decoded)
	}
	return out, nil
}

// formatDecimal keeps the exponent so parsing yields an identical value.
func formatDecimal(value decimal.Decimal) string {
	if exp := value.Exponent(); exp <= 0 {
		return value.StringFixed(-exp)
	}
	return fmt.Sprintf("%se%d", value.Coefficient().String(), value.Exponent())
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func parseTime(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, raw)
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}
