package storage

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/yndnr/taskdeck-go/pkg/crypto/adaptive"
)

// EncryptedKV seals values before handing them to the wrapped KV.
// The key name is bound as additional data, so a value copied to another
// key fails to open.
type EncryptedKV struct {
	inner  KV
	sealer *adaptive.Sealer
}

// NewEncryptedKV wraps inner. key must be 32 bytes.
func NewEncryptedKV(inner KV, key []byte) (*EncryptedKV, error) {
	sealer, err := adaptive.New(key)
	if err != nil {
		return nil, fmt.Errorf("storage: encryption: %w", err)
	}
	return &EncryptedKV{inner: inner, sealer: sealer}, nil
}

// Get opens the stored value. Values that cannot be decoded or
// authenticated are reported as ErrCorruptValue.
func (e *EncryptedKV) Get(ctx context.Context, key string) (string, error) {
	stored, err := e.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}

	blob, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrCorruptValue, key, err)
	}
	plain, err := e.sealer.Open(blob, []byte(key))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrCorruptValue, key, err)
	}
	return string(plain), nil
}

// Set seals value and stores it base64-encoded.
func (e *EncryptedKV) Set(ctx context.Context, key, value string) error {
	blob, err := e.sealer.Seal([]byte(value), []byte(key))
	if err != nil {
		return fmt.Errorf("storage: seal %s: %w", key, err)
	}
	return e.inner.Set(ctx, key, base64.StdEncoding.EncodeToString(blob))
}

// Remove deletes a key.
func (e *EncryptedKV) Remove(ctx context.Context, key string) error {
	return e.inner.Remove(ctx, key)
}

// Close closes the wrapped KV.
func (e *EncryptedKV) Close() error {
	return e.inner.Close()
}

// Unwrap returns the engine values are stored in.
func (e *EncryptedKV) Unwrap() KV {
	return e.inner
}
