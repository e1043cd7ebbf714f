// Package report renders screening verdicts for the command line.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gocarina/gocsv"

	"github.com/ndewijer/graham-screener/internal/screening"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatText, FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown report format %q (want text, csv or json)", name)
}

// Verbosity thresholds: a verdict is shown when Options.Verbosity is at
// least the level of its status.
const (
	VerbosityPass       = 1
	VerbosityFail       = 2
	VerbosityIncomplete = 3
)

// Options controls what a Writer shows and how.
type Options struct {
	// Color enables ANSI styling of the text format.
	Color     bool
	Verbosity int
	Format    Format
}

const (
	ansiReset    = "\x1b[0m"
	ansiRed      = "\x1b[31m"
	ansiGreen    = "\x1b[32m"
	ansiYellow   = "\x1b[33m"
	ansiFailBg   = "\x1b[41;37m"
	ansiPassBg   = "\x1b[42m"
	notAvailable = "N/A"
)

// Writer renders verdicts to an io.Writer. Text output is written as each
// verdict arrives; CSV and JSON are buffered until Flush.
type Writer struct {
	out  io.Writer
	opts Options
	rows []Row
}

// NewWriter creates a Writer. An empty Format means text.
func NewWriter(out io.Writer, opts Options) *Writer {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	return &Writer{out: out, opts: opts}
}

// Row is the flat form of a verdict used by the CSV and JSON formats.
type Row struct {
	Symbol        string `csv:"symbol" json:"symbol"`
	Status        string `csv:"status" json:"status"`
	Rating        string `csv:"rating" json:"rating"`
	RatingAssumed bool   `csv:"rating_assumed" json:"rating_assumed"`
	FailedChecks  string `csv:"failed_checks" json:"failed_checks"`
	MissingField  string `csv:"missing_field" json:"missing_field,omitempty"`
	SharePrice    string `csv:"share_price" json:"share_price"`
	DebtToAsset   string `csv:"debt_to_asset" json:"debt_to_asset"`
	CurrentRatio  string `csv:"current_ratio" json:"current_ratio"`
	PE            string `csv:"pe" json:"pe"`
	PriceToBook   string `csv:"price_to_book" json:"price_to_book"`
	Dividend      string `csv:"dividend_forward" json:"dividend_forward"`
	Error         string `csv:"error" json:"error,omitempty"`
}

func (w *Writer) shows(level int) bool {
	return w.opts.Verbosity >= level
}

func statusLevel(s screening.Status) int {
	switch s {
	case screening.StatusPass:
		return VerbosityPass
	case screening.StatusFail:
		return VerbosityFail
	}
	return VerbosityIncomplete
}

// WriteVerdict renders v when the verbosity admits its status.
func (w *Writer) WriteVerdict(v screening.Verdict) error {
	if !w.shows(statusLevel(v.Status)) {
		return nil
	}
	if w.opts.Format != FormatText {
		w.rows = append(w.rows, verdictRow(v))
		return nil
	}
	_, err := io.WriteString(w.out, w.text(v))
	return err
}

// WriteError renders a symbol whose record could not be loaded. Errors share
// the verbosity level of incomplete verdicts.
func (w *Writer) WriteError(symbol string, err error) error {
	if !w.shows(VerbosityIncomplete) {
		return nil
	}
	if w.opts.Format != FormatText {
		w.rows = append(w.rows, Row{Symbol: symbol, Status: "ERROR", Error: err.Error()})
		return nil
	}
	_, werr := fmt.Fprintf(w.out, "\n%s:\n %s\n", symbol, w.paint(ansiRed, "!Error: "+err.Error()))
	return werr
}

// Flush writes buffered CSV or JSON output. It is a no-op for text.
func (w *Writer) Flush() error {
	switch w.opts.Format {
	case FormatCSV:
		if len(w.rows) == 0 {
			return nil
		}
		return gocsv.Marshal(w.rows, w.out)
	case FormatJSON:
		rows := w.rows
		if rows == nil {
			rows = []Row{}
		}
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	return nil
}

func (w *Writer) paint(code, s string) string {
	if !w.opts.Color {
		return s
	}
	return code + s + ansiReset
}

func (w *Writer) marker(passed bool) string {
	if passed {
		return w.paint(ansiGreen, "-> Ok")
	}
	return w.paint(ansiRed, "-> Failed")
}

func (w *Writer) text(v screening.Verdict) string {
	var b strings.Builder
	rec := v.Record

	fmt.Fprintf(&b, "\n%s:\n", v.Symbol)
	if v.RatingAssumed {
		fmt.Fprintf(&b, " %s\n", w.paint(ansiYellow,
			fmt.Sprintf("!Warning: No rating found, assuming %d", *rec.Rating)))
	}

	if v.Status == screening.StatusIncomplete {
		fmt.Fprintf(&b, " !Incomplete data (%s), skipping\n", screening.FieldLabel(v.MissingField))
		return b.String()
	}

	line := func(c screening.CheckResult, shown string) {
		fmt.Fprintf(&b, " %s: %s %s\n", c.Label, shown, w.marker(c.Passed))
	}

	for _, c := range v.Checks {
		switch c.Name {
		case screening.CheckRating:
			line(c, strconv.Itoa(*rec.Rating))
			fmt.Fprintf(&b, " Share Price: %s\n", ratio(rec.SharePrice))
			fmt.Fprintf(&b, " Total Debt: %s\n", money(rec.TotalDebt))
			fmt.Fprintf(&b, " Total Debt/Equity: %s\n", ratio(rec.TotalDebtToEquity))
			fmt.Fprintf(&b, " Total Assets: %s\n", money(rec.TotalAssets))
		case screening.CheckNetIncomeTrend:
			line(c, money(rec.LatestNetIncome))
			if !c.Passed {
				fmt.Fprintf(&b, "  -> %s\n", c.Detail)
			}
		default:
			line(c, ratio(c.Value))
		}
	}

	if v.Passed() {
		fmt.Fprintf(&b, " -> %s\n", w.paint(ansiPassBg, "Passed Graham filter"))
	} else {
		fmt.Fprintf(&b, " -> %s\n", w.paint(ansiFailBg, "Failed Graham filter"))
	}
	return b.String()
}

func verdictRow(v screening.Verdict) Row {
	rec := v.Record
	row := Row{
		Symbol:        v.Symbol,
		Status:        string(v.Status),
		RatingAssumed: v.RatingAssumed,
		FailedChecks:  strings.Join(v.FailedNames(), ";"),
		MissingField:  v.MissingField,
		SharePrice:    plain(rec.SharePrice),
		CurrentRatio:  plain(rec.CurrentRatio),
		PE:            plain(rec.EffectivePE()),
		PriceToBook:   plain(rec.PriceToBook),
		Dividend:      plain(rec.DividendForward),
	}
	if rec.Rating != nil {
		row.Rating = strconv.Itoa(*rec.Rating)
	}
	if c, ok := v.Check(screening.CheckDebtToAsset); ok {
		row.DebtToAsset = plain(c.Value)
	}
	return row
}

func money(f *float64) string {
	if f == nil {
		return notAvailable
	}
	return humanize.CommafWithDigits(*f, 2)
}

func ratio(f *float64) string {
	if f == nil {
		return notAvailable
	}
	return humanize.FtoaWithDigits(*f, 2)
}

func plain(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
