package repository

import "context"

// KVStore is the durable string key-value store. The only key in use is
// MissedItemsKey.
type KVStore interface {
	// Get returns found=false, without error, when the key has never been set.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// MissedItemsKey holds the JSON array of missed QuizItem snapshots.
const MissedItemsKey = "missedItems"
