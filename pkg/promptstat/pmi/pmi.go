// Package pmi scores how strongly two words associate across records.
package pmi

import "math"

// Calculator computes smoothed pointwise mutual information from record
// counts.
type Calculator struct {
	epsilon float64 // additive smoothing on every count
}

// NewCalculator returns a calculator. Non-positive epsilon disables
// smoothing.
func NewCalculator(epsilon float64) *Calculator {
	if epsilon < 0 {
		epsilon = 0
	}
	return &Calculator{epsilon: epsilon}
}

// PMI returns log(P(a,b) / (P(a)P(b))) where
//   - nAB is the number of records holding both words
//   - nA, nB the number of records holding each word
//   - n the number of records
//
// It is 0 when any probability is undefined.
func (c *Calculator) PMI(nAB, nA, nB, n int64) float64 {
	if n <= 0 {
		return 0
	}
	pAB := (float64(nAB) + c.epsilon) / float64(n)
	pA := (float64(nA) + c.epsilon) / float64(n)
	pB := (float64(nB) + c.epsilon) / float64(n)
	if pAB <= 0 || pA <= 0 || pB <= 0 {
		return 0
	}
	return math.Log(pAB / (pA * pB))
}

// NPMI normalizes PMI by -log P(a,b) into [-1, 1]. Words that always occur
// together in every record score 1.
func (c *Calculator) NPMI(nAB, nA, nB, n int64) float64 {
	if n <= 0 || nAB <= 0 {
		return 0
	}
	pAB := (float64(nAB) + c.epsilon) / float64(n)
	if pAB >= 1 {
		return 1
	}
	v := c.PMI(nAB, nA, nB, n) / -math.Log(pAB)
	return math.Max(-1, math.Min(1, v))
}
