package client

import "sort"

// Bar is one row of a percentage bar chart
type Bar struct {
	Label   string
	Count   int64
	Percent float64
}

// Bars scales counts against the largest bucket. When every bucket is zero
// all percentages are zero. Bars are ordered by count, then label.
func Bars(stats map[string]int64) []Bar {
	var top int64
	for _, n := range stats {
		if n > top {
			top = n
		}
	}

	bars := make([]Bar, 0, len(stats))
	for label, n := range stats {
		b := Bar{Label: label, Count: n}
		if top > 0 {
			b.Percent = float64(n) / float64(top) * 100
		}
		bars = append(bars, b)
	}

	sort.Slice(bars, func(i, j int) bool {
		if bars[i].Count != bars[j].Count {
			return bars[i].Count > bars[j].Count
		}
		return bars[i].Label < bars[j].Label
	})
	return bars
}
