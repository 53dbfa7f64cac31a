package state

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SetFilter replaces the query and re-filters, highlighting the best match.
func (p *Palette) SetFilter(query string, cursor int) {
	p.Filter = query
	if n := len([]rune(query)); cursor > n {
		cursor = n
	}
	if cursor < 0 {
		cursor = 0
	}
	p.FilterCursor = cursor
	p.Items = FilterItems(p.Full, query)
	p.Cursor = 0
	p.ViewportOffset = 0
}

// InsertFilterText inserts text at the filter cursor.
func (p *Palette) InsertFilterText(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	runes := []rune(p.Filter)
	pos := p.FilterCursor
	updated := make([]rune, 0, len(runes)+len(insert))
	updated = append(updated, runes[:pos]...)
	updated = append(updated, insert...)
	updated = append(updated, runes[pos:]...)
	p.SetFilter(string(updated), pos+len(insert))
	return true
}

// DeleteFilterRuneBackward removes the rune before the filter cursor.
func (p *Palette) DeleteFilterRuneBackward() bool {
	runes := []rune(p.Filter)
	pos := p.FilterCursor
	if pos == 0 {
		return false
	}
	p.SetFilter(string(append(runes[:pos-1:pos-1], runes[pos:]...)), pos-1)
	return true
}

// DeleteFilterWordBackward removes the word before the filter cursor.
func (p *Palette) DeleteFilterWordBackward() bool {
	runes := []rune(p.Filter)
	pos := p.FilterCursor
	if pos == 0 {
		return false
	}
	i := pos
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	p.SetFilter(string(append(runes[:i:i], runes[pos:]...)), i)
	return true
}

// FilterItems returns the items matching query. Fuzzy matches on the label
// come first, closest first; identities containing the query follow.
func FilterItems(items []Item, query string) []Item {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return append([]Item(nil), items...)
	}
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})
	seen := make(map[int]struct{}, len(ranks))
	out := make([]Item, 0, len(ranks))
	for _, rank := range ranks {
		seen[rank.OriginalIndex] = struct{}{}
		out = append(out, items[rank.OriginalIndex])
	}
	lower := strings.ToLower(trimmed)
	for i, item := range items {
		if _, ok := seen[i]; ok {
			continue
		}
		if strings.Contains(strings.ToLower(item.ID), lower) {
			out = append(out, item)
		}
	}
	return out
}
