package cascade

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"golang.org/x/net/html"
)

// Stat is number of times a property was applied.
type Stat struct {
	Property string
	Count    int
}

type seenKey struct {
	node *html.Node
	prop string
}

// Tally counts applied properties during a single document run. Nil Tally is
// valid and counts nothing.
type Tally struct {
	counts map[string]int
	seen   map[seenKey]struct{}
}

// NewTally returns empty tally.
func NewTally() *Tally {
	return &Tally{
		counts: make(map[string]int),
		seen:   make(map[seenKey]struct{}),
	}
}

// Observe records that property was resolved for element n. Only applied
// properties are counted and each (element, property) pair counts once.
func (t *Tally) Observe(n *html.Node, prop string, applied bool) {
	if t == nil || !applied {
		return
	}
	key := seenKey{node: n, prop: prop}
	if _, ok := t.seen[key]; ok {
		return
	}
	t.seen[key] = struct{}{}
	t.counts[prop]++
}

// Total returns number of counted applications.
func (t *Tally) Total() int {
	if t == nil {
		return 0
	}
	return len(t.seen)
}

// Report returns counts sorted by count descending, then by property name.
func (t *Tally) Report() []Stat {
	if t == nil || len(t.counts) == 0 {
		return nil
	}
	stats := make([]Stat, 0, len(t.counts))
	for p, c := range t.counts {
		stats = append(stats, Stat{Property: p, Count: c})
	}
	slices.SortFunc(stats, func(a, b Stat) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Property, b.Property)
	})
	return stats
}

// WriteTo renders plain text report, implementing io.WriterTo.
func (t *Tally) WriteTo(w io.Writer) (int64, error) {
	var total int64
	write := func(format string, args ...any) error {
		n, err := fmt.Fprintf(w, format, args...)
		total += int64(n)
		return err
	}

	if err := write("--- Style Application Stats ---\n"); err != nil {
		return total, err
	}
	stats := t.Report()
	if len(stats) == 0 {
		if err := write("No styles were applied.\n"); err != nil {
			return total, err
		}
	}
	for _, s := range stats {
		if err := write("%s: %d times\n", s.Property, s.Count); err != nil {
			return total, err
		}
	}
	err := write("-----------------------------\n")
	return total, err
}
