package yahoo

import (
	"github.com/ndewijer/graham-screener/internal/model"
	"github.com/ndewijer/graham-screener/internal/value"
)

// Response represents the raw JSON response structure from the Yahoo Finance chart API.
// Only the metadata block is used; it carries the latest market price.
type Response struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string   `json:"currency"`
				Symbol             string   `json:"symbol"`
				ExchangeName       string   `json:"exchangeName"`
				LongName           string   `json:"longName"`
				ShortName          string   `json:"shortName"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Quote is the parsed form of a chart Response.
type Quote struct {
	Symbol       string
	Currency     string
	ExchangeName string
	Name         string
	Price        value.Value
}

// KeyStatistics holds the figures read from the key statistics page.
type KeyStatistics struct {
	TrailingPE        value.Value
	ForwardPE         value.Value
	PriceToBook       value.Value
	TotalDebt         value.Value
	TotalDebtToEquity value.Value
	ForwardDividend   value.Value
	CurrentRatio      value.Value
}

// IncomeStatement holds the annual figures read from the financials page.
// NetIncome is keyed by ISO period end date in page order.
type IncomeStatement struct {
	NetIncome    model.NetIncomeSeries
	TotalRevenue value.Value
	GrossProfit  value.Value
}

// LatestNetIncome returns the net income of the most recent period.
func (s IncomeStatement) LatestNetIncome() value.Value {
	p, ok := s.NetIncome.Latest()
	if !ok {
		return value.Value{}
	}
	return value.NewFloat(p.NetIncome)
}

// BalanceSheet holds the figures read from the balance sheet page.
type BalanceSheet struct {
	TotalAssets value.Value
}

// Row is one labelled line of a scraped table.
// Cells excludes the label cell.
type Row struct {
	Label string
	Cells []string
}

// Table is the row structure of a scraped page.
// Periods holds the ISO date of each value column, empty for columns that are
// not annual periods (such as TTM).
type Table struct {
	Periods []string
	Rows    []Row
}
