package health

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
)

// DatabaseChecker probes the configured database with a ping.
func DatabaseChecker(db *sqlx.DB) Checker {
	return CheckerFunc{
		CheckerName: "database",
		Fn: func(ctx context.Context) error {
			return db.PingContext(ctx)
		},
	}
}

// RedisChecker probes the configured Redis instance with a ping.
func RedisChecker(client *redis.Client) Checker {
	return CheckerFunc{
		CheckerName: "redis",
		Fn: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}
