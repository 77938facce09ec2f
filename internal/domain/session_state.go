package domain

import "time"

// SessionState is the whole client-side session. Nil pointers are null
// fields; a nil AvailableSymbols means the list was never loaded.
type SessionState struct {
	Loading          bool
	User             *User
	Token            *string
	TokenExpiry      *time.Time
	ActivePortfolio  *Portfolio
	AvailableSymbols []Symbol
}

func (s SessionState) IsAuthenticated() bool {
	return s.Token != nil
}

// Clone returns a deep copy sharing no slices or pointers with s.
func (s SessionState) Clone() SessionState {
	out := SessionState{Loading: s.Loading}
	if s.User != nil {
		user := s.User.Clone()
		out.User = &user
	}
	if s.Token != nil {
		token := *s.Token
		out.Token = &token
	}
	if s.TokenExpiry != nil {
		expiry := *s.TokenExpiry
		out.TokenExpiry = &expiry
	}
	if s.ActivePortfolio != nil {
		portfolio := s.ActivePortfolio.Clone()
		out.ActivePortfolio = &portfolio
	}
	out.AvailableSymbols = CloneSymbols(s.AvailableSymbols)
	return out
}

func (s SessionState) ActivePortfolioID() (PortfolioID, bool) {
	if s.ActivePortfolio == nil {
		return "", false
	}
	return s.ActivePortfolio.ID, true
}
