package domain

import "github.com/shopspring/decimal"

// DailyTotal is one point of the server-side daily aggregate.
type DailyTotal struct {
	Day       string          `json:"day"`
	TotalSale decimal.Decimal `json:"totalSale"`
}

// SaleRecord is kept exactly as the remote API returned it.
type SaleRecord struct {
	ID            string          `json:"id"`
	Date          string          `json:"date"`
	Price         decimal.Decimal `json:"price"`
	CustomerEmail string          `json:"customerEmail"`
	CustomerPhone string          `json:"customerPhone"`
}

// SalesResponse is one page of sales together with the cursors that lead away from it.
// An empty cursor means there is no page in that direction.
type SalesResponse struct {
	Totals     []DailyTotal `json:"totals"`
	Rows       []SaleRecord `json:"rows"`
	NextCursor string       `json:"nextCursor"`
	PrevCursor string       `json:"prevCursor"`
}

// Token is an authorization token as issued by getAuthorize.
type Token struct {
	Value  string
	Expire int64
}
