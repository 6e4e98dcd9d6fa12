package health

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/consent/pkg/i18n"
	"github.com/dmitrymomot/consent/pkg/localstore"
)

// ProbeKey is the storage key written by StorageCheck.
const ProbeKey = "consent-health-probe"

// StorageCheck writes, reads back and removes ProbeKey.
func StorageCheck(s localstore.Storage) CheckFunc {
	return func(ctx context.Context) error {
		want := strconv.FormatInt(time.Now().UnixNano(), 10)
		if err := s.Set(ctx, ProbeKey, want); err != nil {
			return fmt.Errorf("write probe: %w", err)
		}
		got, err := s.Get(ctx, ProbeKey)
		if err != nil {
			return fmt.Errorf("read probe: %w", err)
		}
		if got != want {
			return ErrStorageMismatch
		}
		return s.Remove(ctx, ProbeKey)
	}
}

// CatalogCheck verifies that every language of c resolves key,
// given as "namespace.key".
func CatalogCheck(c *i18n.Catalog, key string) CheckFunc {
	_, bare, ok := strings.Cut(key, ".")
	if !ok {
		bare = key
	}
	return func(context.Context) error {
		for _, lang := range c.Languages() {
			if c.Translate(lang, key) == bare {
				return fmt.Errorf("%w: %s/%s", ErrMissingTranslation, lang, key)
			}
		}
		return nil
	}
}
