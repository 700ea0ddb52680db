// Package dict maintains a user-defined set of protected words in Redis.
// Protected words (names, product terms, slang the models keep "fixing")
// are restored in the corrected text after the correction backends run.
package dict

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const defaultKey = "pravka:protected_words"

// Dict wraps a Redis client holding the protected-word set.
type Dict struct {
	client *redis.Client
	key    string
}

// New creates a Dict backed by the provided Redis client.
func New(client *redis.Client) *Dict {
	return &Dict{client: client, key: defaultKey}
}

// Add inserts a word into the protected set.
func (d *Dict) Add(ctx context.Context, word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return fmt.Errorf("word is required")
	}
	return d.client.SAdd(ctx, d.key, word).Err()
}

// Remove deletes a word from the protected set.
func (d *Dict) Remove(ctx context.Context, word string) error {
	return d.client.SRem(ctx, d.key, word).Err()
}

// All returns every protected word.
func (d *Dict) All(ctx context.Context) ([]string, error) {
	return d.client.SMembers(ctx, d.key).Result()
}

// Contains reports whether a word is in the protected set.
func (d *Dict) Contains(ctx context.Context, word string) (bool, error) {
	return d.client.SIsMember(ctx, d.key, word).Result()
}

// Ping verifies the Redis connection.
func (d *Dict) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

// Restore walks original and corrected token by token and puts back any
// protected original token that the correction replaced. Tokens are compared
// case-insensitively against the protected set; positions beyond the shorter
// text are left as the correction produced them.
func Restore(original, corrected string, protected []string) string {
	if len(protected) == 0 {
		return corrected
	}

	set := make(map[string]struct{}, len(protected))
	for _, w := range protected {
		set[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}

	origTokens := strings.Fields(original)
	corrTokens := strings.Fields(corrected)

	n := len(origTokens)
	if len(corrTokens) < n {
		n = len(corrTokens)
	}

	for i := 0; i < n; i++ {
		if origTokens[i] == corrTokens[i] {
			continue
		}
		key := strings.ToLower(strings.Trim(origTokens[i], ".,!?;:\"'()"))
		if _, ok := set[key]; ok {
			corrTokens[i] = origTokens[i]
		}
	}

	return strings.Join(corrTokens, " ")
}
