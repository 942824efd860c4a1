// Package ratelimiter is a token bucket limiter with in-memory and Redis
// stores plus chi-compatible middleware.
//
//	store := ratelimiter.NewRedisStore(redisClient) // or NewMemoryStore()
//	bucket, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       10,
//		RefillRate:     10,
//		RefillInterval: time.Minute,
//	})
//	r.With(ratelimiter.Middleware(bucket,
//		ratelimiter.Composite(ratelimiter.ByIP(), ratelimiter.Static("sign-in")),
//	)).Post("/sign-in", h)
//
// A denied request does not consume tokens, so a client that keeps retrying
// regains access as soon as the next refill happens.
package ratelimiter
