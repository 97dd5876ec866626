package occupancy

import (
	"fmt"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
)

// Summary counts nodes by state and, for classified nodes, by dominant label.
type Summary struct {
	States     map[State]int
	Labels     map[int]int
	Classified int
	Total      int
}

// Summarize tallies the given nodes. Pruned nodes are counted by state only.
func Summarize(nodes []*Node) Summary {
	s := Summary{States: map[State]int{}, Labels: map[int]int{}}
	for _, n := range nodes {
		s.Total++
		s.States[n.state]++
		if n.state == Pruned || !n.classified {
			continue
		}
		s.Classified++
		s.Labels[n.Label()]++
	}
	return s
}

// String renders the summary as a table with one row per state followed by one row per label.
func (s Summary) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Kind", "Value", "Count"})
	for _, st := range []State{Free, Occupied, Unknown, Pruned} {
		t.AppendRow(table.Row{"state", st.String(), s.States[st]})
	}
	labels := lo.Keys(s.Labels)
	slices.Sort(labels)
	for _, label := range labels {
		t.AppendRow(table.Row{"label", fmt.Sprintf("%d", label), s.Labels[label]})
	}
	t.AppendFooter(table.Row{"total", fmt.Sprintf("%d classified", s.Classified), s.Total})
	return t.Render()
}
