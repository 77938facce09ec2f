package domain

type UserID string

type PortfolioSummary struct {
	ID   PortfolioID `json:"id"`
	Name string      `json:"name"`
}

type User struct {
	ID         UserID             `json:"id"`
	Username   string             `json:"username"`
	Email      string             `json:"email"`
	Disabled   bool               `json:"disabled"`
	Portfolios []PortfolioSummary `json:"portfolios"`
}

func (u User) Clone() User {
	if u.Portfolios != nil {
		u.Portfolios = append([]PortfolioSummary(nil), u.Portfolios...)
	}
	return u
}

// WithPortfolio returns a copy of u with summary appended. u is left untouched.
func (u User) WithPortfolio(summary PortfolioSummary) User {
	portfolios := make([]PortfolioSummary, 0, len(u.Portfolios)+1)
	portfolios = append(portfolios, u.Portfolios...)
	u.Portfolios = append(portfolios, summary)
	return u
}

func (u User) HasPortfolio(id PortfolioID) bool {
	for _, summary := range u.Portfolios {
		if summary.ID == id {
			return true
		}
	}
	return false
}

// FirstPortfolio reports the portfolio a fresh login opens on.
func (u User) FirstPortfolio() (PortfolioSummary, bool) {
	if len(u.Portfolios) == 0 {
		return PortfolioSummary{}, false
	}
	return u.Portfolios[0], true
}
