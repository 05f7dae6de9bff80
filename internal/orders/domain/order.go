package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Unspecified is stored when an order is created without a location or product.
const Unspecified = "Unspecified"

// OrderItem is a single tracked entry in the shared order list.
type OrderItem struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	OrderDate time.Time `json:"orderDate"`
	Location  string    `json:"location"`
	Product   string    `json:"product"`
	Completed bool      `json:"completed"`
	IsDeleted bool      `json:"isDeleted,omitempty"`
}

// UnmarshalJSON accepts the legacy "timestamp" field written by the first
// version of the list when "orderDate" is absent.
func (o *OrderItem) UnmarshalJSON(data []byte) error {
	type alias OrderItem
	aux := struct {
		*alias
		OrderDate *time.Time `json:"orderDate"`
		Timestamp *time.Time `json:"timestamp"`
	}{alias: (*alias)(o)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch {
	case aux.OrderDate != nil && !aux.OrderDate.IsZero():
		o.OrderDate = *aux.OrderDate
	case aux.Timestamp != nil:
		o.OrderDate = *aux.Timestamp
	}
	return nil
}

// NewOrder carries the caller supplied fields of an append.
type NewOrder struct {
	Content   string     `json:"content"`
	OrderDate *time.Time `json:"orderDate,omitempty"`
	Location  string     `json:"location,omitempty"`
	Product   string     `json:"product,omitempty"`
}

// Build turns the input into a stored item, filling defaults for omitted fields.
func (n NewOrder) Build(id string, now time.Time) OrderItem {
	orderDate := now.UTC()
	if n.OrderDate != nil && !n.OrderDate.IsZero() {
		orderDate = *n.OrderDate
	}

	return OrderItem{
		ID:        id,
		Content:   n.Content,
		OrderDate: orderDate,
		Location:  OrDefault(n.Location),
		Product:   OrDefault(n.Product),
		Completed: false,
	}
}

// Patch lists the fields an update may rewrite. Nil fields are left untouched.
type Patch struct {
	ID        string `json:"id"`
	Completed *bool  `json:"completed,omitempty"`
	IsDeleted *bool  `json:"isDeleted,omitempty"`
}

// Apply merges the patch into a copy of the item. Completion is monotonic, so a
// completed item stays completed whatever the patch says.
func (o OrderItem) Apply(p Patch) OrderItem {
	if p.Completed != nil && *p.Completed {
		o.Completed = true
	}
	if p.IsDeleted != nil {
		o.IsDeleted = *p.IsDeleted
	}
	return o
}

// OrDefault returns Unspecified for blank values.
func OrDefault(value string) string {
	if strings.TrimSpace(value) == "" {
		return Unspecified
	}
	return value
}

// Visible drops soft-deleted items, keeping the order of the rest.
func Visible(items []OrderItem) []OrderItem {
	out := make([]OrderItem, 0, len(items))
	for _, item := range items {
		if item.IsDeleted {
			continue
		}
		out = append(out, item)
	}
	return out
}
