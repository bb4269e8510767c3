package redis

import "fmt"

// Key patterns for the subscriber registry
const (
	// KeySubscriber holds one subscriber record as a hash
	KeySubscriber = "advent:subscriber:%s"
	// KeySubscriberIDs is the set of all known subscriber IDs
	KeySubscriberIDs = "advent:subscribers"
)

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeySubscriber returns the hash key for one subscriber record
func (kb *KeyBuilder) KeySubscriber(userID string) string {
	return kb.BuildKey(fmt.Sprintf(KeySubscriber, userID))
}

// KeySubscriberIDs returns the key of the known-subscriber ID set
func (kb *KeyBuilder) KeySubscriberIDs() string {
	return kb.BuildKey(KeySubscriberIDs)
}
