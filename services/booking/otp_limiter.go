package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisOTPLimiter counts verification attempts per booking in a fixed window.
type RedisOTPLimiter struct {
	Client      *redis.Client
	MaxAttempts int
	Window      time.Duration
}

func otpAttemptsKey(bookingID string) string {
	return fmt.Sprintf("otp_attempts:%s", bookingID)
}

// Allow records an attempt and reports whether it is within the limit.
func (l *RedisOTPLimiter) Allow(ctx context.Context, bookingID string) (bool, error) {
	if l.MaxAttempts <= 0 {
		return true, nil
	}
	key := otpAttemptsKey(bookingID)

	n, err := l.Client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("otp attempt counter: %w", err)
	}
	if n == 1 {
		if err := l.Client.Expire(ctx, key, l.Window).Err(); err != nil {
			return false, fmt.Errorf("otp attempt window: %w", err)
		}
	}
	return n <= int64(l.MaxAttempts), nil
}

func (l *RedisOTPLimiter) Reset(ctx context.Context, bookingID string) error {
	if err := l.Client.Del(ctx, otpAttemptsKey(bookingID)).Err(); err != nil {
		return fmt.Errorf("otp attempt reset: %w", err)
	}
	return nil
}
