// Package idempotency remembers which orders a checkout request created,
// keyed by the client's Idempotency-Key, so a retried request can be
// answered without writing again.
package idempotency

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrInFlight means another request holding the same key has not finished.
var ErrInFlight = errors.New("idempotency key is in use by a request in flight")

const pendingMarker = "pending"

// PendingTTL bounds how long a reservation blocks retries when the
// request holding it neither completes nor releases it. Completed keys
// live for the store's full TTL.
const PendingTTL = time.Minute

func pendingTTL(ttl time.Duration) time.Duration {
	if ttl < PendingTTL {
		return ttl
	}
	return PendingTTL
}

const keyPrefix = "shopez:idem:"

func encodeIDs(ids []string) (string, error) {
	b, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeIDs(v string) ([]string, error) {
	var ids []string
	if err := json.Unmarshal([]byte(v), &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
