package domain

import "errors"

var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrNoUser            = errors.New("no user loaded")
	ErrNoActivePortfolio = errors.New("no active portfolio")
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrInvalidOrder      = errors.New("invalid order")
	ErrBlobNotFound      = errors.New("blob not found")
	ErrSnapshotNotFound  = errors.New("session snapshot not found")
)
