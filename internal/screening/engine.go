// Package screening evaluates a fundamentals record against the Graham
// value filter and explains the outcome check by check.
//
// Evaluation is pure: it performs no I/O, keeps no state between calls and
// never mutates the record it is given, so an Engine may be shared across
// goroutines.
package screening

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ndewijer/graham-screener/internal/model"
)

// Engine applies a fixed set of Criteria.
type Engine struct {
	criteria Criteria
}

// NewEngine creates an Engine for the given thresholds.
func NewEngine(criteria Criteria) *Engine {
	return &Engine{criteria: criteria}
}

var defaultEngine = NewEngine(DefaultCriteria())

// Evaluate screens rec with DefaultCriteria.
func Evaluate(rec model.Fundamentals) Verdict {
	return defaultEngine.Evaluate(rec)
}

// Criteria returns the thresholds the engine applies.
func (e *Engine) Criteria() Criteria {
	return e.criteria
}

// Evaluate screens a single record.
//
// A missing or zero (unrated) rating is replaced by Criteria.DefaultRating
// on a copy of the record. A rating outside 1..5 is kept and fails the
// rating check. Any other required field that is unknown stops evaluation with
// StatusIncomplete and names the first missing field. Otherwise every check
// runs and the verdict is StatusPass only when all of them pass.
func (e *Engine) Evaluate(rec model.Fundamentals) Verdict {
	verdict := Verdict{Symbol: rec.Symbol}

	if !knownRating(rec.Rating) {
		rec = rec.WithRating(e.criteria.DefaultRating)
		verdict.RatingAssumed = true
	}
	verdict.Record = rec

	if field := firstMissing(rec); field != "" {
		verdict.Status = StatusIncomplete
		verdict.MissingField = field
		return verdict
	}

	pe := *rec.EffectivePE()

	verdict.Checks = []CheckResult{
		e.checkRating(*rec.Rating),
		e.checkDebtToAsset(*rec.TotalDebt, *rec.TotalAssets),
		e.checkCurrentRatio(*rec.CurrentRatio),
		checkNetIncomeTrend(rec.NetIncome, rec.LatestNetIncome),
		e.checkPE(CheckPETrailing, rec.PETrailing, pe),
		e.checkPE(CheckPEForward, rec.PEForward, pe),
		e.checkPriceToBook(*rec.PriceToBook),
		checkDividend(rec.DividendForward),
	}

	verdict.Status = StatusPass
	for _, c := range verdict.Checks {
		if !c.Passed {
			verdict.Status = StatusFail
			break
		}
	}

	return verdict
}

// knownRating treats nil and 0 (unrated) as unknown.
func knownRating(r *int) bool {
	return r != nil && *r != 0
}

func known(f *float64) bool {
	return f != nil && !math.IsNaN(*f)
}

func firstMissing(rec model.Fundamentals) string {
	switch {
	case !known(rec.TotalDebt):
		return FieldTotalDebt
	case !known(rec.TotalAssets):
		return FieldTotalAssets
	case !known(rec.CurrentRatio):
		return FieldCurrentRatio
	case !known(rec.PriceToBook):
		return FieldPriceToBook
	case !known(rec.LatestNetIncome):
		return FieldLatestNetIncome
	case len(rec.NetIncome) == 0:
		return FieldNetIncomeSeries
	case !known(rec.EffectivePE()):
		return FieldEffectivePE
	}
	return ""
}

func result(name string, passed bool, v *float64, detail string) CheckResult {
	if passed {
		detail = ""
	}
	return CheckResult{
		Name:   name,
		Label:  checkLabels[name],
		Passed: passed,
		Value:  v,
		Detail: detail,
	}
}

func (e *Engine) checkRating(rating int) CheckResult {
	v := model.Ptr(float64(rating))
	if rating < 1 || rating > 5 {
		return result(CheckRating, false, v, fmt.Sprintf("rating %d is outside 1..5", rating))
	}
	return result(CheckRating, rating <= e.criteria.MaxRating, v,
		fmt.Sprintf("rating %d is worse than %d", rating, e.criteria.MaxRating))
}

func (e *Engine) checkDebtToAsset(debt, assets float64) CheckResult {
	if assets == 0 {
		return result(CheckDebtToAsset, false, nil, "total assets are zero")
	}
	ratio := debt / assets
	return result(CheckDebtToAsset, ratio <= e.criteria.MaxDebtToAsset, &ratio,
		fmt.Sprintf("ratio %.2f exceeds %.2f", ratio, e.criteria.MaxDebtToAsset))
}

func (e *Engine) checkCurrentRatio(cr float64) CheckResult {
	return result(CheckCurrentRatio, cr <= e.criteria.MaxCurrentRatio, &cr,
		fmt.Sprintf("current ratio %.2f exceeds %.2f", cr, e.criteria.MaxCurrentRatio))
}

// checkPE fails when the reported P/E is known and the effective P/E is too
// high. Both P/E checks therefore look at the same effective figure.
func (e *Engine) checkPE(name string, reported *float64, effective float64) CheckResult {
	failed := known(reported) && effective > e.criteria.MaxPE
	return result(name, !failed, reported,
		fmt.Sprintf("effective P/E %.2f exceeds %s", effective, formatNumber(e.criteria.MaxPE)))
}

func (e *Engine) checkPriceToBook(pb float64) CheckResult {
	return result(CheckPriceToBook, pb < e.criteria.MaxPriceToBook, &pb,
		fmt.Sprintf("price to book %.2f is not below %.2f", pb, e.criteria.MaxPriceToBook))
}

// checkDividend fails for a zero dividend as well as an unknown one.
func checkDividend(dividend *float64) CheckResult {
	return result(CheckDividend, known(dividend) && *dividend != 0, dividend, "no forward dividend")
}

// checkNetIncomeTrend walks the series in period order. It fails on the
// earliest negative period, otherwise when the last period did not grow
// over the first one. A single period never counts as growth.
func checkNetIncomeTrend(series model.NetIncomeSeries, latest *float64) CheckResult {
	sorted := series.Sorted()
	if len(sorted) == 0 {
		return result(CheckNetIncomeTrend, false, latest, "no net income data")
	}

	first := sorted[0].NetIncome
	last := first
	negative := -1
	for i, p := range sorted {
		if p.NetIncome < 0 && negative < 0 {
			negative = i
		}
		last = p.NetIncome
	}

	if negative >= 0 {
		p := sorted[negative]
		return result(CheckNetIncomeTrend, false, latest,
			fmt.Sprintf("negative net income in %s: %s", p.Label, formatNumber(p.NetIncome)))
	}

	if last <= first {
		return result(CheckNetIncomeTrend, false, latest,
			fmt.Sprintf("no growth: net income went from %s (%s) to %s (%s)",
				formatNumber(first), sorted[0].Label, formatNumber(last), sorted[len(sorted)-1].Label))
	}

	return result(CheckNetIncomeTrend, true, latest, "")
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
