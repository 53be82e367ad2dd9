package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const maxUpdateRetries = 5

var ErrUpdateConflict = errors.New("concurrent update conflict")

// RedisAdapter is the blob backend: each collection lives under a single key
// holding the whole serialised document.
type RedisAdapter struct {
	client    *redis.Client
	namespace string
}

func NewRedisAdapter(client *redis.Client, namespace string) *RedisAdapter {
	return &RedisAdapter{client: client, namespace: namespace}
}

func (r *RedisAdapter) key(key string) string {
	return r.namespace + ":" + key
}

func (r *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	blob, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (r *RedisAdapter) Set(ctx context.Context, key string, blob []byte) error {
	return r.client.Set(ctx, r.key(key), blob, 0).Err()
}

// Update applies fn under WATCH so two writers cannot interleave a
// read-modify-write on the same collection.
func (r *RedisAdapter) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	k := r.key(key)

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, k).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, next, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrUpdateConflict
}

func (r *RedisAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisAdapter) Close() error {
	return r.client.Close()
}
