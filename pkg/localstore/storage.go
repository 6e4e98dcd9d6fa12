package localstore

import (
	"context"
	"strings"
)

// Storage is a string key-value store scoped to one visitor.
type Storage interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Unavailable is a Storage that is switched off. Every call fails with ErrUnavailable.
type Unavailable struct{}

func (Unavailable) Get(context.Context, string) (string, error) { return "", ErrUnavailable }
func (Unavailable) Set(context.Context, string, string) error   { return ErrUnavailable }
func (Unavailable) Remove(context.Context, string) error        { return ErrUnavailable }

func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return ErrInvalidKey
	}
	return nil
}

var _ Storage = Unavailable{}
