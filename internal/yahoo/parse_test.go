package yahoo_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/graham-screener/internal/model"
	"github.com/ndewijer/graham-screener/internal/value"
	"github.com/ndewijer/graham-screener/internal/yahoo"
)

const keyStatisticsPage = `<html><body>
<table><tbody>
<tr><td><span>Market Cap</span></td><td>12.3B</td></tr>
<tr><td><span>Trailing P/E</span></td><td>8.52</td></tr>
<tr><td><span>Forward P/E</span> <sup>1</sup></td><td>7.91</td></tr>
<tr><td><span>Price/Book</span> (mrq)</td><td>1.05</td></tr>
<tr><td><span>Total Debt</span> (mrq)</td><td>2.5B</td></tr>
<tr><td><span>Total Debt/Equity</span> (mrq)</td><td>45.3</td></tr>
<tr><td><span>Forward Annual Dividend Rate</span> <sup>4</sup></td><td>0.88</td></tr>
<tr><td><span>Current Ratio</span> (mrq)</td><td>N/A</td></tr>
</tbody></table>
</body></html>`

const incomeStatementPage = `<html><body>
<div class="tableHeader">
  <div class="row">
    <div class="column">Breakdown</div>
    <div class="column">TTM</div>
    <div class="column">12/31/2023</div>
    <div class="column">12/31/2022</div>
    <div class="column">12/31/2021</div>
  </div>
</div>
<div class="tableBody">
  <div class="row">
    <div class="column"><div class="rowTitle">Total Revenue</div></div>
    <div class="column">400,000</div>
    <div class="column">383,285</div>
    <div class="column">394,328</div>
    <div class="column">365,817</div>
  </div>
  <div class="row">
    <div class="column"><div class="rowTitle">Gross Profit</div></div>
    <div class="column">180,000</div>
    <div class="column">169,148</div>
    <div class="column">170,782</div>
    <div class="column">152,836</div>
  </div>
  <div class="row">
    <div class="column"><div class="rowTitle">Net Income from Continuing Operations</div></div>
    <div class="column">1</div>
    <div class="column">1</div>
    <div class="column">1</div>
    <div class="column">1</div>
  </div>
  <div class="row">
    <div class="column"><div class="rowTitle">Net Income Common Stockholders</div></div>
    <div class="column">100,000</div>
    <div class="column">96,995</div>
    <div class="column">-</div>
    <div class="column">-94,680</div>
  </div>
</div>
</body></html>`

const balanceSheetPage = `<html><body><table>
<thead><tr><th>Breakdown</th><th>9/30/2023</th><th>9/30/2022</th></tr></thead>
<tbody>
<tr><td>Total Assets</td><td>352,583</td><td>352,755</td></tr>
<tr><td>Total Liabilities Net Minority Interest</td><td>290,437</td><td>302,083</td></tr>
</tbody></table></body></html>`

func floatOf(t *testing.T, v value.Value) float64 {
	t.Helper()
	f, ok := v.Float64()
	require.True(t, ok, "value is unknown")
	return f
}

func TestParseTable(t *testing.T) {
	t.Run("reads table rows", func(t *testing.T) {
		table, err := yahoo.ParseTable(strings.NewReader(keyStatisticsPage))
		require.NoError(t, err)

		assert.Nil(t, table.Periods)
		require.Len(t, table.Rows, 8)
		assert.Equal(t, "Forward P/E 1", table.Rows[2].Label)
		assert.Equal(t, []string{"7.91"}, table.Rows[2].Cells)
	})

	t.Run("reads div rows and the period header", func(t *testing.T) {
		table, err := yahoo.ParseTable(strings.NewReader(incomeStatementPage))
		require.NoError(t, err)

		assert.Equal(t, []string{"", "2023-12-31", "2022-12-31", "2021-12-31"}, table.Periods)
		require.Len(t, table.Rows, 4)
		assert.Equal(t, "Total Revenue", table.Rows[0].Label)
	})

	t.Run("page without rows", func(t *testing.T) {
		table, err := yahoo.ParseTable(strings.NewReader("<html><body><p>Symbol not found</p></body></html>"))
		require.NoError(t, err)
		assert.Empty(t, table.Rows)
	})
}

func TestTable_Lookup(t *testing.T) {
	table := yahoo.Table{Rows: []yahoo.Row{
		{Label: "Total Debt/Equity (mrq)", Cells: []string{"45.3"}},
		{Label: "Total Debt (mrq)", Cells: []string{"2.5B"}},
		{Label: "Net Income from Continuing Operations", Cells: []string{"1"}},
		{Label: "Net Income", Cells: []string{"2"}},
	}}

	tests := []struct {
		name   string
		labels []string
		want   string
		found  bool
	}{
		{"prefix followed by a space", []string{"Total Debt"}, "Total Debt (mrq)", true},
		{"slash is not a word boundary", []string{"Total Debt/Equity"}, "Total Debt/Equity (mrq)", true},
		{"exact match beats an earlier prefix match", []string{"Net Income"}, "Net Income", true},
		{"labels are tried in order", []string{"Gross Profit", "Net Income"}, "Net Income", true},
		{"no match", []string{"Current Ratio"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, ok := table.Lookup(tt.labels...)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, row.Label)
		})
	}
}

func TestParseKeyStatistics(t *testing.T) {
	stats, err := yahoo.ParseKeyStatistics(strings.NewReader(keyStatisticsPage))
	require.NoError(t, err)

	assert.Equal(t, 8.52, floatOf(t, stats.TrailingPE))
	assert.Equal(t, 7.91, floatOf(t, stats.ForwardPE))
	assert.Equal(t, 1.05, floatOf(t, stats.PriceToBook))
	assert.Equal(t, 45.3, floatOf(t, stats.TotalDebtToEquity))
	assert.Equal(t, 0.88, floatOf(t, stats.ForwardDividend))

	assert.Equal(t, value.Integer, stats.TotalDebt.Kind())
	debt, _ := stats.TotalDebt.Int64()
	assert.Equal(t, int64(25_000_000_000), debt)

	assert.True(t, stats.CurrentRatio.IsUnknown(), "N/A must be unknown")
}

func TestParseIncomeStatement(t *testing.T) {
	stmt, err := yahoo.ParseIncomeStatement(strings.NewReader(incomeStatementPage))
	require.NoError(t, err)

	t.Run("figures come from the latest annual column in thousands", func(t *testing.T) {
		assert.Equal(t, 3_832_850_000.0, floatOf(t, stmt.TotalRevenue))
		assert.Equal(t, 1_691_480_000.0, floatOf(t, stmt.GrossProfit))
	})

	t.Run("net income series skips TTM and unparseable cells", func(t *testing.T) {
		assert.Equal(t, model.NetIncomeSeries{
			{Label: "2023-12-31", NetIncome: 969_950_000},
			{Label: "2021-12-31", NetIncome: -946_800_000},
		}, stmt.NetIncome)
	})

	t.Run("latest net income is the most recent period", func(t *testing.T) {
		assert.Equal(t, 969_950_000.0, floatOf(t, stmt.LatestNetIncome()))
	})

	t.Run("empty page yields unknowns", func(t *testing.T) {
		empty, err := yahoo.ParseIncomeStatement(strings.NewReader("<html></html>"))
		require.NoError(t, err)
		assert.Nil(t, empty.NetIncome)
		assert.True(t, empty.TotalRevenue.IsUnknown())
		assert.True(t, empty.LatestNetIncome().IsUnknown())
	})
}

func TestParseBalanceSheet(t *testing.T) {
	sheet, err := yahoo.ParseBalanceSheet(strings.NewReader(balanceSheetPage))
	require.NoError(t, err)

	assert.Equal(t, 3_525_830_000.0, floatOf(t, sheet.TotalAssets))
}
