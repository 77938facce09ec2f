package domain

import "time"

type Credentials struct {
	Username string
	Password string
}

// TokenGrant is a session credential issued by the remote service.
type TokenGrant struct {
	AccessToken string
	ExpiresAt   time.Time
	TokenType   string
}

func (g TokenGrant) ExpiringSoon(now time.Time, skew time.Duration) bool {
	if g.ExpiresAt.IsZero() {
		return false
	}
	return !g.ExpiresAt.After(now.Add(skew))
}
