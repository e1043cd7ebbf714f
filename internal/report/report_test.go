package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/graham-screener/internal/model"
	"github.com/ndewijer/graham-screener/internal/report"
	"github.com/ndewijer/graham-screener/internal/screening"
	"github.com/ndewijer/graham-screener/internal/testutil"
)

func verdictFor(b *testutil.FundamentalsBuilder) screening.Verdict {
	return screening.Evaluate(b.Record())
}

func TestParseFormat(t *testing.T) {
	f, err := report.ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, report.FormatCSV, f)

	_, err = report.ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriter_TextPass(t *testing.T) {
	var buf bytes.Buffer
	w := report.NewWriter(&buf, report.Options{Verbosity: 1})

	require.NoError(t, w.WriteVerdict(verdictFor(testutil.NewFundamentals("ACME"))))
	require.NoError(t, w.Flush())

	want := strings.Join([]string{
		"",
		"ACME:",
		" Rating: 2 -> Ok",
		" Share Price: 21.5",
		" Total Debt: 80,000,000",
		" Total Debt/Equity: 0.4",
		" Total Assets: 100,000,000",
		" Total Debt to Total Asset ratio: 0.8 -> Ok",
		" Current Ratio: 1.2 -> Ok",
		" Net Income: 9,000,000 -> Ok",
		" P/E (trailing): 8 -> Ok",
		" P/E (forward): 7.5 -> Ok",
		" Price to Book Value: 0.9 -> Ok",
		" Dividend (forward): 0.5 -> Ok",
		" -> Passed Graham filter",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
	assert.NotContains(t, buf.String(), "\x1b[", "no styling without Color")
}

func TestWriter_TextFail(t *testing.T) {
	var buf bytes.Buffer
	w := report.NewWriter(&buf, report.Options{Verbosity: 2})

	v := verdictFor(testutil.NewFundamentals("ACME").
		WithRating(nil).
		WithNetIncome(model.NetIncomeSeries{
			{Label: "2016-12-31", NetIncome: -5},
			{Label: "2017-12-31", NetIncome: 3},
		}))
	require.NoError(t, w.WriteVerdict(v))

	out := buf.String()
	assert.Contains(t, out, " !Warning: No rating found, assuming 3\n")
	assert.Contains(t, out, " Rating: 3 -> Ok\n")
	assert.Contains(t, out, " Net Income: 3 -> Failed\n")
	assert.Contains(t, out, "  -> negative net income in 2016-12-31: -5\n")
	assert.True(t, strings.HasSuffix(out, " -> Failed Graham filter\n"))
}

func TestWriter_TextIncomplete(t *testing.T) {
	var buf bytes.Buffer
	w := report.NewWriter(&buf, report.Options{Verbosity: 3})

	require.NoError(t, w.WriteVerdict(verdictFor(testutil.NewFundamentals("ACME").WithTotalDebt(nil))))
	assert.Equal(t, "\nACME:\n !Incomplete data (Total Debt), skipping\n", buf.String())

	buf.Reset()
	require.NoError(t, w.WriteError("ERR", errors.New("status 404")))
	assert.Equal(t, "\nERR:\n !Error: status 404\n", buf.String())
}

func TestWriter_Verbosity(t *testing.T) {
	pass := verdictFor(testutil.NewFundamentals("PASS"))
	fail := verdictFor(testutil.NewFundamentals("FAIL").WithPriceToBook(4))
	half := verdictFor(testutil.NewFundamentals("HALF").WithTotalDebt(nil))

	tests := []struct {
		verbosity int
		shown     []string
	}{
		{0, nil},
		{1, []string{"PASS"}},
		{2, []string{"PASS", "FAIL"}},
		{3, []string{"PASS", "FAIL", "HALF", "ERR"}},
		{5, []string{"PASS", "FAIL", "HALF", "ERR"}},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		w := report.NewWriter(&buf, report.Options{Verbosity: tt.verbosity})
		for _, v := range []screening.Verdict{pass, fail, half} {
			require.NoError(t, w.WriteVerdict(v))
		}
		require.NoError(t, w.WriteError("ERR", errors.New("boom")))

		for _, sym := range []string{"PASS", "FAIL", "HALF", "ERR"} {
			want := false
			for _, s := range tt.shown {
				want = want || s == sym
			}
			assert.Equal(t, want, strings.Contains(buf.String(), "\n"+sym+":\n"),
				"verbosity %d symbol %s", tt.verbosity, sym)
		}
	}
}

func TestWriter_Color(t *testing.T) {
	var buf bytes.Buffer
	w := report.NewWriter(&buf, report.Options{Verbosity: 2, Color: true})

	require.NoError(t, w.WriteVerdict(verdictFor(testutil.NewFundamentals("ACME").WithPriceToBook(4))))

	out := buf.String()
	assert.Contains(t, out, "\x1b[32m-> Ok\x1b[0m")
	assert.Contains(t, out, "\x1b[31m-> Failed\x1b[0m")
	assert.Contains(t, out, "\x1b[41;37mFailed Graham filter\x1b[0m")
}

func TestWriter_CSV(t *testing.T) {
	var buf bytes.Buffer
	w := report.NewWriter(&buf, report.Options{Verbosity: 3, Format: report.FormatCSV})

	require.NoError(t, w.WriteVerdict(verdictFor(testutil.NewFundamentals("ACME").WithPriceToBook(4))))
	require.NoError(t, w.WriteError("ERR", errors.New("boom")))
	assert.Empty(t, buf.String(), "csv is written on Flush")
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "symbol,status,rating,rating_assumed,failed_checks"))
	assert.True(t, strings.HasPrefix(lines[1], "ACME,FAIL,2,false,price_to_book,"))
	assert.True(t, strings.HasPrefix(lines[2], "ERR,ERROR,"))
	assert.True(t, strings.HasSuffix(lines[2], ",boom"))
}

func TestWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	w := report.NewWriter(&buf, report.Options{Verbosity: 1, Format: report.FormatJSON})

	require.NoError(t, w.WriteVerdict(verdictFor(testutil.NewFundamentals("ACME"))))
	require.NoError(t, w.Flush())

	var rows []report.Row
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "ACME", rows[0].Symbol)
	assert.Equal(t, "PASS", rows[0].Status)
	assert.Equal(t, "0.8", rows[0].DebtToAsset)
	assert.Equal(t, "7.5", rows[0].PE)

	buf.Reset()
	empty := report.NewWriter(&buf, report.Options{Format: report.FormatJSON})
	require.NoError(t, empty.Flush())
	assert.Equal(t, "[]\n", buf.String())
}
