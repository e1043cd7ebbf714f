package yahoo

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ndewijer/graham-screener/internal/model"
	"github.com/ndewijer/graham-screener/internal/value"
)

// Row labels as they appear on the Yahoo pages.
const (
	LabelTrailingPE        = "Trailing P/E"
	LabelForwardPE         = "Forward P/E"
	LabelPriceToBook       = "Price/Book"
	LabelTotalDebt         = "Total Debt"
	LabelTotalDebtToEquity = "Total Debt/Equity"
	LabelForwardDividend   = "Forward Annual Dividend Rate"
	LabelCurrentRatio      = "Current Ratio"
	LabelTotalAssets       = "Total Assets"
	LabelTotalRevenue      = "Total Revenue"
	LabelGrossProfit       = "Gross Profit"
)

// netIncomeLabels are tried in order; page layouts have used all of them.
var netIncomeLabels = []string{
	"Net Income Applicable To Common Shares",
	"Net Income Common Stockholders",
	"Net Income",
}

var periodLayouts = []string{"1/2/2006", "01/02/2006", "2006-01-02"}

// ParseTable reads the labelled rows of an HTML page.
//
// Rows are <tr> elements with td/th cells, or elements with class "row" whose
// children with class "column" are the cells. The first row with a date in
// any value column is taken as the period header.
func ParseTable(r io.Reader) (Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("failed to parse page: %w", err)
	}

	var table Table
	addRow := func(cells *goquery.Selection) {
		if cells.Length() == 0 {
			return
		}
		texts := make([]string, 0, cells.Length())
		cells.Each(func(_ int, cell *goquery.Selection) {
			texts = append(texts, strings.Join(strings.Fields(cell.Text()), " "))
		})

		if table.Periods == nil {
			if periods, ok := parsePeriods(texts[1:]); ok {
				table.Periods = periods
				return
			}
		}
		if texts[0] == "" {
			return
		}
		table.Rows = append(table.Rows, Row{Label: texts[0], Cells: texts[1:]})
	}

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		addRow(row.Find("td, th"))
	})
	doc.Find(".row").Each(func(_ int, row *goquery.Selection) {
		addRow(row.ChildrenFiltered(".column"))
	})

	return table, nil
}

func parsePeriods(headers []string) ([]string, bool) {
	periods := make([]string, len(headers))
	found := false
	for i, h := range headers {
		if d, ok := parsePeriod(h); ok {
			periods[i] = d
			found = true
		}
	}
	return periods, found
}

func parsePeriod(s string) (string, bool) {
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// Lookup finds the first row matching one of labels, tried in order.
// A row matches when its label equals the wanted label, or starts with it
// followed by a space (footnote markers and "(mrq)" style qualifiers).
func (t Table) Lookup(labels ...string) (Row, bool) {
	for _, label := range labels {
		for _, row := range t.Rows {
			if row.Label == label {
				return row, true
			}
		}
		for _, row := range t.Rows {
			if strings.HasPrefix(row.Label, label+" ") {
				return row, true
			}
		}
	}
	return Row{}, false
}

// latestColumn is the index of the most recent annual period, or 0 when the
// table has no period header.
func (t Table) latestColumn() int {
	for i, p := range t.Periods {
		if p != "" {
			return i
		}
	}
	return 0
}

func (t Table) stat(labels ...string) value.Value {
	row, ok := t.Lookup(labels...)
	if !ok || len(row.Cells) == 0 {
		return value.Value{}
	}
	return value.Parse(row.Cells[0])
}

// statement reads a financial statement figure. Statements are reported in
// thousands.
func (t Table) statement(labels ...string) value.Value {
	row, ok := t.Lookup(labels...)
	col := t.latestColumn()
	if !ok || col >= len(row.Cells) {
		return value.Value{}
	}
	return statementValue(row.Cells[col])
}

func statementValue(cell string) value.Value {
	if cell == "" {
		return value.Value{}
	}
	return value.Parse(cell + "k")
}

// series reads one figure per annual period. Unparseable cells are left out.
func (t Table) series(labels ...string) model.NetIncomeSeries {
	row, ok := t.Lookup(labels...)
	if !ok {
		return nil
	}

	var series model.NetIncomeSeries
	for i, period := range t.Periods {
		if period == "" || i >= len(row.Cells) {
			continue
		}
		if f, ok := statementValue(row.Cells[i]).Float64(); ok {
			series = append(series, model.Period{Label: period, NetIncome: f})
		}
	}
	return series
}

// ParseKeyStatistics extracts the valuation and balance sheet ratios from a
// key statistics page.
func ParseKeyStatistics(r io.Reader) (KeyStatistics, error) {
	t, err := ParseTable(r)
	if err != nil {
		return KeyStatistics{}, err
	}

	return KeyStatistics{
		TrailingPE:        t.stat(LabelTrailingPE),
		ForwardPE:         t.stat(LabelForwardPE),
		PriceToBook:       t.stat(LabelPriceToBook),
		TotalDebt:         t.stat(LabelTotalDebt),
		TotalDebtToEquity: t.stat(LabelTotalDebtToEquity),
		ForwardDividend:   t.stat(LabelForwardDividend),
		CurrentRatio:      t.stat(LabelCurrentRatio),
	}, nil
}

// ParseIncomeStatement extracts the annual net income series, total revenue
// and gross profit from a financials page.
func ParseIncomeStatement(r io.Reader) (IncomeStatement, error) {
	t, err := ParseTable(r)
	if err != nil {
		return IncomeStatement{}, err
	}

	return IncomeStatement{
		NetIncome:    t.series(netIncomeLabels...),
		TotalRevenue: t.statement(LabelTotalRevenue),
		GrossProfit:  t.statement(LabelGrossProfit),
	}, nil
}

// ParseBalanceSheet extracts total assets from a balance sheet page.
func ParseBalanceSheet(r io.Reader) (BalanceSheet, error) {
	t, err := ParseTable(r)
	if err != nil {
		return BalanceSheet{}, err
	}

	return BalanceSheet{
		TotalAssets: t.statement(LabelTotalAssets),
	}, nil
}
