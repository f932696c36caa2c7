// Package present projects a dashboard view onto what the stats widget, the
// chart and the table display. Nothing here changes state.
package present

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/TemirB/sales-dashboard/internal/dashboard"
	"github.com/TemirB/sales-dashboard/internal/domain"
)

type Stats struct {
	TotalSalesSum decimal.Decimal `json:"totalSalesSum"`
	RecordCount   int             `json:"recordCount"`
	DayCount      int             `json:"dayCount"`
}

// Summarize sums the daily totals, so the figure covers the whole filtered
// range and not only the rows of the current page.
func Summarize(resp *domain.SalesResponse) Stats {
	if resp == nil {
		return Stats{}
	}
	sum := decimal.Zero
	for _, t := range resp.Totals {
		sum = sum.Add(t.TotalSale)
	}
	return Stats{
		TotalSalesSum: sum,
		RecordCount:   len(resp.Rows),
		DayCount:      len(resp.Totals),
	}
}

type Point struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// Chart returns one point per day in ascending date order.
func Chart(resp *domain.SalesResponse) []Point {
	if resp == nil {
		return nil
	}
	points := make([]Point, 0, len(resp.Totals))
	for _, t := range resp.Totals {
		points = append(points, Point{Date: t.Day, Total: t.TotalSale})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// ChartPath lays points out as an SVG polyline "points" attribute inside a
// width x height box, y growing downwards.
func ChartPath(points []Point, width, height float64) string {
	if len(points) == 0 {
		return ""
	}

	peak := decimal.Zero
	for _, p := range points {
		if p.Total.GreaterThan(peak) {
			peak = p.Total
		}
	}

	var b strings.Builder
	for i, p := range points {
		x := width / 2
		if len(points) > 1 {
			x = width * float64(i) / float64(len(points)-1)
		}
		y := height
		if peak.IsPositive() {
			y = height - height*p.Total.Div(peak).InexactFloat64()
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(x, 'f', 1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(y, 'f', 1, 64))
	}
	return b.String()
}

type Row struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Price string `json:"price"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func Table(resp *domain.SalesResponse, f *Formatter) []Row {
	if resp == nil {
		return nil
	}
	rows := make([]Row, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		rows = append(rows, Row{
			ID:    r.ID,
			Date:  f.Date(r.Date),
			Price: f.Money(r.Price),
			Email: r.CustomerEmail,
			Phone: r.CustomerPhone,
		})
	}
	return rows
}

// Page is everything one render of the dashboard needs.
type Page struct {
	Status     dashboard.Status `json:"status"`
	Error      string           `json:"error,omitempty"`
	AuthFailed bool             `json:"authFailed,omitempty"`
	Filter     domain.Filter    `json:"filter"`
	Sort       domain.Sort      `json:"sort"`
	PageNumber int              `json:"pageNumber"`
	HasNext    bool             `json:"hasNext"`
	HasPrev    bool             `json:"hasPrev"`

	Stats      Stats   `json:"stats"`
	TotalText  string  `json:"totalText"`
	Chart      []Point `json:"chart"`
	ChartPath  string  `json:"-"`
	Rows       []Row   `json:"rows"`
	NextCursor string  `json:"afterCursor"`
	PrevCursor string  `json:"beforeCursor"`

	Last dashboard.FetchStats `json:"last"`
}

const (
	ChartWidth  = 600
	ChartHeight = 200
)

func Build(v dashboard.View, f *Formatter) Page {
	p := Page{
		Status:     v.Status(),
		Error:      v.Error,
		AuthFailed: v.AuthFailed,
		Filter:     v.Filter,
		Sort:       v.Sort,
		PageNumber: v.PageNumber,
		HasNext:    v.HasNext,
		HasPrev:    v.HasPrev,
		Stats:      Summarize(v.Response),
		Chart:      Chart(v.Response),
		Rows:       Table(v.Response, f),
		Last:       v.Last,
	}
	p.TotalText = f.Money(p.Stats.TotalSalesSum)
	p.ChartPath = ChartPath(p.Chart, ChartWidth, ChartHeight)
	if v.Response != nil {
		p.NextCursor = v.Response.NextCursor
		p.PrevCursor = v.Response.PrevCursor
	}
	return p
}
