package ports

import "context"

// StoredResponse is the append response replayed when a client resubmits with
// the same Idempotency-Key.
type StoredResponse struct {
	StatusCode int    `json:"status_code"`
	Body       []byte `json:"body"`
	ItemID     string `json:"item_id"`
}

// IdempotencyStore remembers append responses per key. Get returns nil, nil
// for an unknown key.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*StoredResponse, error)
	Save(ctx context.Context, key string, response StoredResponse) error
}
