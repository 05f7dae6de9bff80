package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dejobratic/sharedorders/internal/orders/domain"
)

func boolPtr(v bool) *bool { return &v }

func TestNewOrderBuild(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("fills defaults for omitted fields", func(t *testing.T) {
		item := domain.NewOrder{Content: "2kg paneer"}.Build("id-1", now)

		if item.ID != "id-1" {
			t.Errorf("expected id id-1, got %s", item.ID)
		}
		if !item.OrderDate.Equal(now) {
			t.Errorf("expected order date %v, got %v", now, item.OrderDate)
		}
		if item.Location != domain.Unspecified {
			t.Errorf("expected location %q, got %q", domain.Unspecified, item.Location)
		}
		if item.Product != domain.Unspecified {
			t.Errorf("expected product %q, got %q", domain.Unspecified, item.Product)
		}
		if item.Completed {
			t.Error("expected new item to be incomplete")
		}
	})

	t.Run("keeps supplied fields", func(t *testing.T) {
		date := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
		item := domain.NewOrder{
			Content:   "cream cheese",
			OrderDate: &date,
			Location:  "VMP",
			Product:   "Cream Cheese",
		}.Build("id-2", now)

		if !item.OrderDate.Equal(date) {
			t.Errorf("expected order date %v, got %v", date, item.OrderDate)
		}
		if item.Location != "VMP" || item.Product != "Cream Cheese" {
			t.Errorf("unexpected location/product: %q/%q", item.Location, item.Product)
		}
	})
}

func TestOrderItemApply(t *testing.T) {
	tests := []struct {
		name          string
		item          domain.OrderItem
		patch         domain.Patch
		wantCompleted bool
		wantDeleted   bool
	}{
		{"completes open item", domain.OrderItem{}, domain.Patch{Completed: boolPtr(true)}, true, false},
		{"ignores un-complete", domain.OrderItem{Completed: true}, domain.Patch{Completed: boolPtr(false)}, true, false},
		{"soft deletes", domain.OrderItem{}, domain.Patch{IsDeleted: boolPtr(true)}, false, true},
		{"empty patch is a no-op", domain.OrderItem{Completed: true, IsDeleted: true}, domain.Patch{}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.item.Apply(tt.patch)
			if got.Completed != tt.wantCompleted {
				t.Errorf("Completed = %v, want %v", got.Completed, tt.wantCompleted)
			}
			if got.IsDeleted != tt.wantDeleted {
				t.Errorf("IsDeleted = %v, want %v", got.IsDeleted, tt.wantDeleted)
			}
		})
	}
}

func TestOrderItemUnmarshalLegacyTimestamp(t *testing.T) {
	raw := `{"id":"a","content":"old entry","timestamp":"2024-03-01T08:00:00Z"}`

	var item domain.OrderItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	if !item.OrderDate.Equal(want) {
		t.Errorf("expected order date %v, got %v", want, item.OrderDate)
	}
	if item.Content != "old entry" {
		t.Errorf("expected content to survive, got %q", item.Content)
	}
}

func TestDecodeList(t *testing.T) {
	for _, raw := range []string{"", "null", "  ", "[]"} {
		items, err := domain.DecodeList([]byte(raw))
		if err != nil {
			t.Fatalf("DecodeList(%q): %v", raw, err)
		}
		if items == nil || len(items) != 0 {
			t.Errorf("DecodeList(%q) = %v, want empty list", raw, items)
		}
	}

	if _, err := domain.DecodeList([]byte(`{"not":"a list"}`)); err == nil {
		t.Error("expected error for non-array value")
	}
}

func TestEncodeListNil(t *testing.T) {
	data, err := domain.EncodeList(nil)
	if err != nil {
		t.Fatalf("EncodeList: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected [] for nil list, got %s", data)
	}
}

func TestVisible(t *testing.T) {
	items := []domain.OrderItem{{ID: "1"}, {ID: "2", IsDeleted: true}, {ID: "3"}}
	got := domain.Visible(items)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("unexpected visible items: %+v", got)
	}
}
