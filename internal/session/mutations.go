package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/bnema/tradedesk/internal/domain"
)

type Field string

const (
	FieldLoading          Field = "loading"
	FieldUser             Field = "user"
	FieldToken            Field = "token"
	FieldTokenExpiry      Field = "tokenExpiry"
	FieldActivePortfolio  Field = "activePortfolio"
	FieldAvailableSymbols Field = "availableSymbols"
)

type MutationName string

const (
	SetLoading          MutationName = "setLoading"
	SetUser             MutationName = "setUser"
	SetToken            MutationName = "setToken"
	SetTokenExpiry      MutationName = "setTokenExpiry"
	SetPortfolio        MutationName = "setPortfolio"
	SetAvailableSymbols MutationName = "setAvailableSymbols"
)

var (
	ErrUnknownMutation  = errors.New("unknown mutation")
	ErrUnknownField     = errors.New("unknown state field")
	ErrMalformedPayload = errors.New("malformed mutation payload")
)

type mutation struct {
	field Field
	apply func(state *domain.SessionState, payload any)
}

var mutations = map[MutationName]mutation{
	SetLoading: {field: FieldLoading, apply: func(state *domain.SessionState, payload any) {
		loading, ok := payload.(bool)
		if !ok {
			panic(malformed(SetLoading, payload))
		}
		state.Loading = loading
	}},
	SetUser: {field: FieldUser, apply: func(state *domain.SessionState, payload any) {
		user := nullable[domain.User](SetUser, payload)
		if user != nil {
			*user = user.Clone()
		}
		state.User = user
	}},
	SetToken: {field: FieldToken, apply: func(state *domain.SessionState, payload any) {
		state.Token = nullable[string](SetToken, payload)
	}},
	SetTokenExpiry: {field: FieldTokenExpiry, apply: func(state *domain.SessionState, payload any) {
		state.TokenExpiry = nullable[time.Time](SetTokenExpiry, payload)
	}},
	SetPortfolio: {field: FieldActivePortfolio, apply: func(state *domain.SessionState, payload any) {
		portfolio := nullable[domain.Portfolio](SetPortfolio, payload)
		if portfolio != nil {
			*portfolio = portfolio.Clone()
		}
		state.ActivePortfolio = portfolio
	}},
	SetAvailableSymbols: {field: FieldAvailableSymbols, apply: func(state *domain.SessionState, payload any) {
		switch symbols := payload.(type) {
		case nil:
			state.AvailableSymbols = nil
		case []domain.Symbol:
			state.AvailableSymbols = domain.CloneSymbols(symbols)
		default:
			panic(malformed(SetAvailableSymbols, payload))
		}
	}},
}

func lookupMutation(name MutationName) mutation {
	m, ok := mutations[name]
	if !ok {
		panic(fmt.Errorf("%w: %q", ErrUnknownMutation, name))
	}
	return m
}

// nullable accepts T, *T or nil and returns a fresh pointer the store owns.
func nullable[T any](name MutationName, payload any) *T {
	switch v := payload.(type) {
	case nil:
		return nil
	case T:
		return &v
	case *T:
		if v == nil {
			return nil
		}
		value := *v
		return &value
	default:
		panic(malformed(name, payload))
	}
}

func malformed(name MutationName, payload any) error {
	return fmt.Errorf("%w: %s does not accept %T", ErrMalformedPayload, name, payload)
}
