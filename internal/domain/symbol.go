package domain

type Symbol struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Logo   string `json:"logo,omitempty"`
}

func CloneSymbols(symbols []Symbol) []Symbol {
	if symbols == nil {
		return nil
	}
	return append(make([]Symbol, 0, len(symbols)), symbols...)
}
