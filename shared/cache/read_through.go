package cache

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ReadThrough serves key from the cache and falls back to load on a miss. Concurrent misses for
// one key share a single load, and the result is stored in the background.
func ReadThrough[T any](
	ctx context.Context,
	redisCache RedisCache,
	group *singleflight.Group,
	key string,
	ttlSeconds int,
	load func(ctx context.Context) (T, error),
) (T, error) {
	var cached T
	if err := redisCache.Get(ctx, key, &cached); err == nil {
		log.Debug().Str("key", key).Msg("Cache hit")

		return cached, nil
	}

	value, err, _ := group.Do(key, func() (any, error) {
		loaded, err := load(ctx)

		return loaded, err
	})
	if err != nil {
		var zero T

		return zero, err //nolint:wrapcheck
	}

	res, _ := value.(T)

	go func() {
		if err := redisCache.Save(context.WithoutCancel(ctx), key, res, ttlSeconds); err != nil {
			log.Error().Err(err).Str("key", key).Msg("Failed to fill cache")
		}
	}()

	return res, nil
}
