package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeList parses the persisted list value. An absent or null value is an
// empty list.
func DecodeList(data []byte) ([]OrderItem, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []OrderItem{}, nil
	}

	var items []OrderItem
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("decode order list: %w", err)
	}
	if items == nil {
		items = []OrderItem{}
	}
	return items, nil
}

// EncodeList renders the list as a JSON array, never as null.
func EncodeList(items []OrderItem) ([]byte, error) {
	if items == nil {
		items = []OrderItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode order list: %w", err)
	}
	return data, nil
}
