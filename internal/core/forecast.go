package core

import (
	"fmt"
	"math"
)

// DefaultForecastHorizon is the number of future months predicted by the
// analytics page.
const DefaultForecastHorizon = 3

// Forecast is the predicted expense magnitude for the months immediately
// following the last observed expense month.
type Forecast struct {
	Periods []string // YYYY-MM labels, chronological
	Amounts []Money  // absolute predicted spend, cent precision
}

// ForecastExpenses fits an ordinary least squares line through the monthly
// expense series and extrapolates it for the given horizon.
//
// The series is built from expense transactions only, resampled onto the
// continuous month axis between the first and last observed expense month:
// months without activity contribute a zero bucket. Signed amounts are
// summed per bucket, so the fitted values are non-positive, and the
// reported predictions are their magnitudes rounded to the cent.
//
// Degenerate inputs have defined outputs instead of errors: with no
// expense transactions the forecast is empty, and with a single observed
// month the fit is flat and every future month predicts that month's
// value. A rising income-like trend can push the fitted line across zero;
// the magnitude is reported regardless of sign, which overstates spend in
// that case. Known modeling limit, kept for parity with the trend chart.
func ForecastExpenses(txs []Transaction, horizon int) Forecast {
	if horizon <= 0 {
		return Forecast{}
	}

	first, last, found := expenseMonthRange(txs)
	if !found {
		return Forecast{}
	}

	// Zero-filled buckets spanning the observed range, signed cents.
	k := last - first + 1
	buckets := make([]float64, k)
	for _, t := range txs {
		if t.Amount.Cents >= 0 {
			continue
		}
		buckets[monthIndex(t.Date)-first] += float64(t.Amount.Cents)
	}

	slope, intercept := fitLine(buckets)

	f := Forecast{
		Periods: make([]string, horizon),
		Amounts: make([]Money, horizon),
	}
	for i := 0; i < horizon; i++ {
		x := float64(k + i)
		pred := intercept + slope*x
		f.Periods[i] = periodLabel(last + 1 + i)
		f.Amounts[i] = Money{Cents: int64(math.Round(math.Abs(pred)))}
	}
	return f
}

// fitLine performs a simple least squares fit of y against its index.
// A single point yields a flat line through that point.
func fitLine(y []float64) (slope, intercept float64) {
	n := float64(len(y))
	xMean := (n - 1) / 2
	var yMean float64
	for _, v := range y {
		yMean += v
	}
	yMean /= n

	var num, den float64
	for i, v := range y {
		dx := float64(i) - xMean
		num += dx * (v - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0, yMean
	}
	slope = num / den
	return slope, yMean - slope*xMean
}

// monthIndex maps a date onto the continuous month axis.
func monthIndex(d Date) int {
	return d.Time.Year()*12 + int(d.Time.Month()) - 1
}

func periodLabel(index int) string {
	return fmt.Sprintf("%04d-%02d", index/12, index%12+1)
}

func expenseMonthRange(txs []Transaction) (first, last int, found bool) {
	for _, t := range txs {
		if t.Amount.Cents >= 0 {
			continue
		}
		idx := monthIndex(t.Date)
		if !found {
			first, last, found = idx, idx, true
			continue
		}
		if idx < first {
			first = idx
		}
		if idx > last {
			last = idx
		}
	}
	return first, last, found
}
