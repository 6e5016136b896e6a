package inventory

import (
	"iter"
	"strings"

	"golang.org/x/text/cases"
)

// Match derives a lazy, restartable view of items whose name, SKU,
// category or description contains the search term, compared with Unicode
// case folding. An empty or whitespace-only term passes every item
// through in its original order.
func Match(items []Item, term string) iter.Seq[Item] {
	// cases.Caser is stateful, so each sequence owns its own folder.
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(term))
	return func(yield func(Item) bool) {
		folder := cases.Fold()
		for _, item := range items {
			if needle != "" && !matches(folder, item, needle) {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}

func matches(folder cases.Caser, item Item, needle string) bool {
	if strings.Contains(folder.String(item.Name), needle) {
		return true
	}
	for _, field := range []*string{item.SKU, item.Category, item.Description} {
		if field != nil && strings.Contains(folder.String(*field), needle) {
			return true
		}
	}
	return false
}
