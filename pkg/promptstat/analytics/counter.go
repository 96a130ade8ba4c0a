// Package analytics counts words and word pairs over table columns.
package analytics

import "sort"

// orderedCounter counts keys and remembers the order keys were first seen,
// so equal counts rank by first encounter.
type orderedCounter[K comparable] struct {
	index  map[K]int
	keys   []K
	counts []int
}

func newOrderedCounter[K comparable]() *orderedCounter[K] {
	return &orderedCounter[K]{index: make(map[K]int)}
}

func (c *orderedCounter[K]) add(k K) {
	if i, ok := c.index[k]; ok {
		c.counts[i]++
		return
	}
	c.index[k] = len(c.keys)
	c.keys = append(c.keys, k)
	c.counts = append(c.counts, 1)
}

func (c *orderedCounter[K]) count(k K) int {
	if i, ok := c.index[k]; ok {
		return c.counts[i]
	}
	return 0
}

func (c *orderedCounter[K]) len() int {
	return len(c.keys)
}

// top returns positions of the n highest counts, ties in first-seen order.
// n <= 0 returns every position.
func (c *orderedCounter[K]) top(n int) []int {
	order := make([]int, len(c.keys))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return c.counts[order[i]] > c.counts[order[j]]
	})
	if n > 0 && len(order) > n {
		order = order[:n]
	}
	return order
}
