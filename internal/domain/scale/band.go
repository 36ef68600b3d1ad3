package scale

import "math"

// Band divides a continuous range into equal bands, one per key, separated by
// padding expressed as a fraction of the step.
type Band struct {
	index   map[string]int
	keys    []string
	r0      float64
	step    float64
	bw      float64
	padding float64
}

// NewBand lays out keys over [r0,r1]. padding is clamped to [0,1].
func NewBand(keys []string, r0, r1, padding float64) Band {
	padding = math.Max(0, math.Min(1, padding))
	b := Band{index: make(map[string]int, len(keys)), keys: keys, r0: r0, padding: padding}
	for i, k := range keys {
		if _, ok := b.index[k]; !ok {
			b.index[k] = i
		}
	}
	n := float64(len(keys))
	if n == 0 {
		return b
	}
	// outer padding matches inner padding
	b.step = (r1 - r0) / math.Max(1, n+padding)
	b.r0 = r0 + b.step*padding
	b.bw = b.step * (1 - padding)
	return b
}

// Start returns the start of key's band and whether key is known.
func (b Band) Start(key string) (float64, bool) {
	i, ok := b.index[key]
	if !ok {
		return 0, false
	}
	return b.r0 + float64(i)*b.step, true
}

// Center returns the midpoint of key's band.
func (b Band) Center(key string) (float64, bool) {
	s, ok := b.Start(key)
	return s + b.bw/2, ok
}

// Bandwidth is the width of every band.
func (b Band) Bandwidth() float64 { return b.bw }

// Step is the distance between consecutive band starts.
func (b Band) Step() float64 { return b.step }

// Keys returns the band keys in layout order.
func (b Band) Keys() []string { return b.keys }
