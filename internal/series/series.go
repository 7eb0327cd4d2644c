// Package series aggregates trades into fixed-width, origin-aligned time
// buckets and merges independently fetched bar pages without loss or
// duplication. Bar values are float64: they feed charting, not settlement.
package series

import (
	"math"

	"github.com/shopspring/decimal"
)

// Colors of volume histogram bars by trade sentiment.
const (
	UpColor   = "#22ab94"
	DownColor = "#f7525f"
)

// PriceBar is one OHLC bucket. Value mirrors Close for chart overlays that
// want a single series.
type PriceBar struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Close float64 `json:"close"`
	Value float64 `json:"value"`
}

// VolumeBar is one traded-volume bucket.
type VolumeBar struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Bar is any time-bucketed sample.
type Bar interface {
	Bucket() int64
}

func (b PriceBar) Bucket() int64  { return b.Time }
func (b VolumeBar) Bucket() int64 { return b.Time }

// LowerSlot aligns a timepoint down to its bucket boundary.
func LowerSlot(interval, timepoint int64) int64 {
	if interval <= 0 {
		return timepoint
	}
	return timepoint / interval * interval
}

// UpperSlot aligns a timepoint up to the next bucket boundary.
func UpperSlot(interval, timepoint int64) int64 {
	if interval <= 0 {
		return timepoint
	}
	slot := LowerSlot(interval, timepoint)
	if slot == timepoint {
		return timepoint
	}
	return slot + interval
}

// Merge joins two time-sorted bar slices. Bars sharing a bucket are combined
// with reduce rather than one overwriting the other, so a live bar for the
// current bucket accumulates with a historically fetched bar for the same
// bucket. Duplicate buckets within one input fold into the previous output
// bar the same way.
func Merge[B Bar](a, b []B, reduce func(B, B) B) []B {
	merged := make([]B, 0, len(a)+len(b))
	push := func(bar B) {
		if n := len(merged); n > 0 && merged[n-1].Bucket() == bar.Bucket() {
			merged[n-1] = reduce(merged[n-1], bar)
			return
		}
		merged = append(merged, bar)
	}

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Bucket() < b[j].Bucket():
			push(a[i])
			i++
		case a[i].Bucket() > b[j].Bucket():
			push(b[j])
			j++
		default:
			push(reduce(a[i], b[j]))
			i++
			j++
		}
	}
	for ; i < len(a); i++ {
		push(a[i])
	}
	for ; j < len(b); j++ {
		push(b[j])
	}
	return merged
}

// MergePrice merges price pages: open and close average, low takes the
// minimum, high the maximum.
func MergePrice(a, b []PriceBar) []PriceBar {
	return Merge(a, b, func(x, y PriceBar) PriceBar {
		return PriceBar{
			Time:  x.Time,
			Open:  (x.Open + y.Open) / 2,
			Low:   math.Min(x.Low, y.Low),
			High:  math.Max(x.High, y.High),
			Close: (x.Close + y.Close) / 2,
			Value: (x.Value + y.Value) / 2,
		}
	})
}

// MergeVolume merges volume pages by summing. The later page's color wins.
func MergeVolume(a, b []VolumeBar) []VolumeBar {
	return Merge(a, b, func(x, y VolumeBar) VolumeBar {
		return VolumeBar{Time: x.Time, Value: x.Value + y.Value, Color: y.Color}
	})
}

// ApplyTrade folds one live trade print into the tail of both series. The
// trade lands in the bucket its arrival time rounds up to; a bar already
// open for that bucket accumulates, otherwise a new bar starts. Sentiment is
// positive for an up-tick. A volume bar keeps its color when the new print
// is small relative to the volume already in the bucket.
func ApplyTrade(
	prices []PriceBar, volumes []VolumeBar,
	price, quantity decimal.Decimal,
	sentiment int, interval, now int64,
) ([]PriceBar, []VolumeBar) {
	bucket := UpperSlot(interval, now)
	p, _ := price.Float64()
	q, _ := quantity.Float64()

	color := UpColor
	if sentiment < 0 {
		color = DownColor
	}

	next := PriceBar{Time: bucket, Open: p, Low: p, High: p, Close: p, Value: p}
	if n := len(prices); n > 0 && prices[n-1].Time == bucket {
		prev := prices[n-1]
		next.Open = prev.Open
		next.Low = math.Min(prev.Low, p)
		next.High = math.Max(prev.High, p)
		prices = append(prices[:n-1:n-1], next)
	} else {
		prices = append(prices, next)
	}

	bar := VolumeBar{Time: bucket, Value: q, Color: color}
	if n := len(volumes); n > 0 && volumes[n-1].Time == bucket {
		prev := volumes[n-1]
		bar.Value = prev.Value + q
		if prev.Value*0.5 >= q {
			bar.Color = prev.Color
		}
		volumes = append(volumes[:n-1:n-1], bar)
	} else {
		volumes = append(volumes, bar)
	}

	return prices, volumes
}
