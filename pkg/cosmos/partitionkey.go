package cosmos

import (
	"encoding/json"
	"fmt"
)

// PartitionKey is the logical-partition value of an item. The zero value
// means "no partition key" and is valid only on non-partitioned containers
// or cross-partition queries.
type PartitionKey struct {
	set   bool
	value any
}

// NewPartitionKeyString builds a partition key from a string value.
func NewPartitionKeyString(v string) PartitionKey {
	return PartitionKey{set: true, value: v}
}

// NewPartitionKeyNumber builds a partition key from a numeric value.
func NewPartitionKeyNumber(v float64) PartitionKey {
	return PartitionKey{set: true, value: v}
}

// NewPartitionKeyBool builds a partition key from a boolean value.
func NewPartitionKeyBool(v bool) PartitionKey {
	return PartitionKey{set: true, value: v}
}

// NullPartitionKey addresses the partition of items whose key path resolves
// to JSON null.
func NullPartitionKey() PartitionKey {
	return PartitionKey{set: true, value: nil}
}

// IsSet reports whether the key carries a value.
func (pk PartitionKey) IsSet() bool {
	return pk.set
}

// headerValue serializes the key as the JSON array the service expects in
// the partition-key request header.
func (pk PartitionKey) headerValue() (string, error) {
	if !pk.set {
		return "", fmt.Errorf("partition key is not set")
	}
	raw, err := json.Marshal([]any{pk.value})
	if err != nil {
		return "", fmt.Errorf("failed to encode partition key: %w", err)
	}
	return string(raw), nil
}
