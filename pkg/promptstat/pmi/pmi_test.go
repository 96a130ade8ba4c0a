package pmi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPMIIndependent(t *testing.T) {
	c := NewCalculator(0)
	// a in half the records, b in half, together in a quarter: independent.
	assert.InDelta(t, 0, c.PMI(25, 50, 50, 100), 1e-12)
	assert.InDelta(t, 0, c.NPMI(25, 50, 50, 100), 1e-12)
}

func TestNPMIBounds(t *testing.T) {
	c := NewCalculator(0)
	assert.Equal(t, 1.0, c.NPMI(10, 10, 10, 10), "always together")
	assert.InDelta(t, 1, c.NPMI(10, 10, 10, 100), 1e-12, "perfect association")
	assert.Equal(t, 0.0, c.NPMI(0, 10, 10, 100), "no co-occurrence")

	for _, tc := range [][4]int64{{1, 50, 60, 100}, {3, 4, 5, 6}, {2, 90, 90, 100}} {
		v := c.NPMI(tc[0], tc[1], tc[2], tc[3])
		assert.GreaterOrEqual(t, v, -1.0, "NPMI%v", tc)
		assert.LessOrEqual(t, v, 1.0, "NPMI%v", tc)
	}
}

func TestPMIEmptyCorpus(t *testing.T) {
	c := NewCalculator(1)
	assert.Zero(t, c.PMI(1, 1, 1, 0))
	assert.Zero(t, c.NPMI(1, 1, 1, 0))
}
