package guest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
)

// BlobStore persists one JSON document per cart token. A missing blob reads
// as (nil, nil); only real I/O failures surface as errors.
type BlobStore interface {
	Read(ctx context.Context, token string) ([]byte, error)
	Write(ctx context.Context, token string, blob []byte) error
	Delete(ctx context.Context, token string) error
}

// FileStore keeps one file per token under a data directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create guest cart dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Read(_ context.Context, token string) ([]byte, error) {
	blob, err := os.ReadFile(s.path(token))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return blob, err
}

func (s *FileStore) Write(_ context.Context, token string, blob []byte) error {
	return os.WriteFile(s.path(token), blob, 0o644)
}

func (s *FileStore) Delete(_ context.Context, token string) error {
	err := os.Remove(s.path(token))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FileStore) path(token string) string {
	// Tokens are minted as UUIDs; Base strips anything path-like from a
	// token a client made up itself.
	return filepath.Join(s.dir, filepath.Base(token)+".json")
}

// RedisStore keeps each guest cart in a hash keyed by token, mirroring the
// one-document-per-cart layout of the file store.
type RedisStore struct {
	client *redis.Client
}

const redisCartField = "cart"

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Read(ctx context.Context, token string) ([]byte, error) {
	blob, err := s.client.HGet(ctx, s.key(token), redisCartField).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis read guest cart: %w", err)
	}
	return blob, nil
}

func (s *RedisStore) Write(ctx context.Context, token string, blob []byte) error {
	if err := s.client.HSet(ctx, s.key(token), redisCartField, blob).Err(); err != nil {
		return fmt.Errorf("redis write guest cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("redis delete guest cart: %w", err)
	}
	return nil
}

func (s *RedisStore) key(token string) string {
	return "guestcart:" + token
}
