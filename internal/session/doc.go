// Package session holds the client session state and the only path to
// mutate it.
//
// A Store owns one domain.SessionState. Reads go through Get or the typed
// accessors and always return deep copies. Writes go through Commit, which
// applies exactly one named mutation, replacing one field wholesale, and then
// notifies subscribers synchronously in registration order.
//
// Mutations:
//
//	setLoading          bool
//	setUser             domain.User | *domain.User | nil
//	setToken            string | *string | nil
//	setTokenExpiry      time.Time | *time.Time | nil
//	setPortfolio        domain.Portfolio | *domain.Portfolio | nil
//	setAvailableSymbols []domain.Symbol (nil clears)
//
// An unknown mutation name or a payload of the wrong type is a programmer
// error and panics.
//
// Every commit bumps a store-wide revision and records it as the revision of
// the written field. Listeners run after the state lock is released, so two
// goroutines committing at once may deliver notifications out of order;
// listeners that care compare Commit.Revision. CommitIfUnchanged lets a
// background writer drop a result computed from a field that has since been
// rewritten.
package session
