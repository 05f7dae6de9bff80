// Package grouping computes display labels and partitions the order list into
// labeled, sorted groups.
package grouping

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dejobratic/sharedorders/internal/orders/domain"
)

// Mode selects the axis orders are grouped by.
type Mode string

const (
	ByDate     Mode = "date"
	ByLocation Mode = "location"
)

const (
	LabelToday     = "Today"
	LabelTomorrow  = "Tomorrow"
	LabelYesterday = "Yesterday"

	dateLayout = "Jan 2, 2006"
)

// ParseMode validates a user supplied grouping mode.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ByDate:
		return ByDate, nil
	case ByLocation:
		return ByLocation, nil
	default:
		return "", fmt.Errorf("unknown group mode %q: want %q or %q", value, ByDate, ByLocation)
	}
}

// Group is one labeled partition of the order list.
type Group struct {
	Label string
	Items []domain.OrderItem
}

// DateLabel names the calendar day of t relative to now. Both are compared in
// now's location, so a late-evening timestamp never slips into the next day.
func DateLabel(t, now time.Time) string {
	local := t.In(now.Location())

	switch {
	case sameDay(local, now):
		return LabelToday
	case sameDay(local, now.AddDate(0, 0, 1)):
		return LabelTomorrow
	case sameDay(local, now.AddDate(0, 0, -1)):
		return LabelYesterday
	default:
		return local.Format(dateLayout)
	}
}

// Label returns the group label of item under mode.
func Label(item domain.OrderItem, mode Mode, now time.Time) string {
	if mode == ByLocation {
		return domain.OrDefault(item.Location)
	}
	return DateLabel(item.OrderDate, now)
}

// GroupAndSort sorts items by order date, most recent first, partitions them
// by label in first-seen order and moves open items ahead of completed ones
// inside each group. Soft-deleted items are skipped.
func GroupAndSort(items []domain.OrderItem, mode Mode, now time.Time) []Group {
	sorted := domain.Visible(items)
	slices.SortStableFunc(sorted, func(a, b domain.OrderItem) int {
		return b.OrderDate.Compare(a.OrderDate)
	})

	var groups []Group
	index := make(map[string]int)
	for _, item := range sorted {
		label := Label(item, mode, now)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Label: label})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	for i := range groups {
		slices.SortStableFunc(groups[i].Items, func(a, b domain.OrderItem) int {
			return completedRank(a) - completedRank(b)
		})
	}

	return groups
}

func completedRank(item domain.OrderItem) int {
	if item.Completed {
		return 1
	}
	return 0
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
