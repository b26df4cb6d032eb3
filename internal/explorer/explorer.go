// Package explorer filters and sorts the loaded compliance records for the
// table views. Everything is pure and synchronous: record sets are tens to
// low hundreds of rows, so total recomputation per keystroke is fine.
package explorer

import (
	"sort"
	"strings"

	"compdash/internal/model"
)

// SortKey selects the sort column.
type SortKey string

const (
	SortFramework  SortKey = "framework"
	SortConfidence SortKey = "confidence"
	SortSeverity   SortKey = "severity"
)

// Query is the current filter/sort state of the explorer.
type Query struct {
	// Search matches case-insensitively against description, obligation id,
	// and framework.
	Search string
	// Framework and Status are equality filters; empty means all.
	Framework string
	Status    model.Status
	SortBy    SortKey
	// Descending reverses the order without changing the row set.
	Descending bool
}

// Apply returns the records matching q, sorted. The input slice is never
// mutated.
func Apply(records []model.ComplianceRecord, q Query) []model.ComplianceRecord {
	out := make([]model.ComplianceRecord, 0, len(records))
	search := strings.ToLower(strings.TrimSpace(q.Search))

	for _, r := range records {
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		if q.Framework != "" && r.Framework != q.Framework {
			continue
		}
		if q.Status != "" && r.Status != q.Status {
			continue
		}
		out = append(out, r)
	}

	less := lessFunc(q.SortBy)
	sort.SliceStable(out, func(i, j int) bool {
		if q.Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func matchesSearch(r model.ComplianceRecord, search string) bool {
	return strings.Contains(strings.ToLower(r.Description), search) ||
		strings.Contains(strings.ToLower(r.ObligationID), search) ||
		strings.Contains(strings.ToLower(r.Framework), search)
}

func lessFunc(key SortKey) func(a, b model.ComplianceRecord) bool {
	switch key {
	case SortConfidence:
		return func(a, b model.ComplianceRecord) bool { return a.Confidence < b.Confidence }
	case SortSeverity:
		return func(a, b model.ComplianceRecord) bool { return a.Severity.Rank() < b.Severity.Rank() }
	default:
		return func(a, b model.ComplianceRecord) bool { return a.Framework < b.Framework }
	}
}

// Frameworks returns the distinct frameworks present, sorted, for the
// filter selector.
func Frameworks(records []model.ComplianceRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if r.Framework != "" && !seen[r.Framework] {
			seen[r.Framework] = true
			out = append(out, r.Framework)
		}
	}
	sort.Strings(out)
	return out
}

// StatusCounts tallies records per canonical status for the summary cards.
func StatusCounts(records []model.ComplianceRecord) map[model.Status]int {
	counts := make(map[model.Status]int)
	for _, r := range records {
		counts[r.Status]++
	}
	return counts
}

// CategoryBreakdown tallies pass/fail per category for the analytics view.
type CategoryBreakdown struct {
	Category string
	Total    int
	Passed   int
	Failed   int
}

// Categories aggregates records by category, sorted by descending total.
func Categories(records []model.ComplianceRecord) []CategoryBreakdown {
	idx := make(map[string]*CategoryBreakdown)
	var order []string
	for _, r := range records {
		cat := r.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		b, ok := idx[cat]
		if !ok {
			b = &CategoryBreakdown{Category: cat}
			idx[cat] = b
			order = append(order, cat)
		}
		b.Total++
		if r.Status == model.StatusCompliant {
			b.Passed++
		} else {
			b.Failed++
		}
	}

	out := make([]CategoryBreakdown, 0, len(order))
	for _, cat := range order {
		out = append(out, *idx[cat])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}
