package visibility

import "github.com/DaylightE/Log-Highlighter/internal/model"

// Item is one row of the display order: either a shown message or a
// placeholder.
type Item struct {
	Message     int // message index, -1 for placeholders
	Placeholder *model.Placeholder
}

// IsPlaceholder reports whether the item stands in for a collapsed run.
func (it Item) IsPlaceholder() bool { return it.Placeholder != nil }

// Layout returns shown messages and placeholders in display order. A
// placeholder comes right before the message at its StartIndex, so an open
// group reads "Hide N messages" followed by its members.
func (s Snapshot) Layout() []Item {
	items := make([]Item, 0, len(s.Shown)+len(s.Placeholders))
	p := 0
	for i, shown := range s.Shown {
		for p < len(s.Placeholders) && s.Placeholders[p].StartIndex == i {
			ph := s.Placeholders[p]
			items = append(items, Item{Message: -1, Placeholder: &ph})
			p++
		}
		if shown {
			items = append(items, Item{Message: i})
		}
	}
	for ; p < len(s.Placeholders); p++ {
		ph := s.Placeholders[p]
		items = append(items, Item{Message: -1, Placeholder: &ph})
	}
	return items
}

// ShownCount is the number of visible messages.
func (s Snapshot) ShownCount() int {
	c := 0
	for _, v := range s.Shown {
		if v {
			c++
		}
	}
	return c
}

// PlaceholderAt returns the innermost placeholder covering message i.
func (s Snapshot) PlaceholderAt(i int) (model.Placeholder, bool) {
	var (
		found model.Placeholder
		ok    bool
	)
	for _, p := range s.Placeholders {
		if p.StartIndex > i {
			break
		}
		if i <= p.End() {
			found, ok = p, true
		}
	}
	return found, ok
}
