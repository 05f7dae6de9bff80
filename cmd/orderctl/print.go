package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dejobratic/sharedorders/internal/orders/domain"
	"github.com/dejobratic/sharedorders/internal/orders/grouping"
)

func printGroups(w io.Writer, groups []grouping.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No orders yet.")
		return
	}

	for i, group := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n", group.Label, len(group.Items))
		for _, item := range group.Items {
			fmt.Fprintf(w, "  %s %s  [%s, %s]  %s\n",
				checkbox(item), item.Content,
				domain.OrDefault(item.Location), domain.OrDefault(item.Product),
				item.ID,
			)
		}
	}
}

func checkbox(item domain.OrderItem) string {
	if item.Completed {
		return "[x]"
	}
	return "[ ]"
}

func printSuggestions(w io.Writer, locations, products []string) {
	fmt.Fprintf(w, "Locations: %s\n", strings.Join(locations, ", "))
	fmt.Fprintf(w, "Products: %s\n", strings.Join(products, ", "))
}
