package autobizz

import (
	"github.com/shopspring/decimal"

	"github.com/TemirB/sales-dashboard/internal/domain"
)

type authorizeRequest struct {
	TokenType string `json:"tokenType"`
}

type authorizeResponse struct {
	Token  string `json:"token"`
	Expire int64  `json:"expire"`
}

type salesEnvelope struct {
	Results    *salesResults    `json:"results"`
	Pagination *salesPagination `json:"pagination"`
}

type salesResults struct {
	TotalSales []totalSale `json:"TotalSales"`
	Sales      []sale      `json:"Sales"`
}

type totalSale struct {
	Day       string          `json:"day"`
	TotalSale decimal.Decimal `json:"totalSale"`
}

type sale struct {
	ID            string          `json:"_id"`
	Date          string          `json:"date"`
	Price         decimal.Decimal `json:"price"`
	CustomerEmail string          `json:"customerEmail"`
	CustomerPhone string          `json:"customerPhone"`
}

type salesPagination struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

func (e salesEnvelope) toDomain() *domain.SalesResponse {
	resp := &domain.SalesResponse{
		Totals: make([]domain.DailyTotal, 0, len(e.Results.TotalSales)),
		Rows:   make([]domain.SaleRecord, 0, len(e.Results.Sales)),
	}
	for _, t := range e.Results.TotalSales {
		resp.Totals = append(resp.Totals, domain.DailyTotal{Day: t.Day, TotalSale: t.TotalSale})
	}
	for _, s := range e.Results.Sales {
		resp.Rows = append(resp.Rows, domain.SaleRecord{
			ID:            s.ID,
			Date:          s.Date,
			Price:         s.Price,
			CustomerEmail: s.CustomerEmail,
			CustomerPhone: s.CustomerPhone,
		})
	}
	if e.Pagination != nil {
		resp.NextCursor = e.Pagination.After
		resp.PrevCursor = e.Pagination.Before
	}
	return resp
}
