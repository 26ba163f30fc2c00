package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

const (
	otpAttemptLimit  = 5
	otpAttemptWindow = 10 * time.Minute
)

// RedisConnect opens the shared redis client used to throttle OTP
// verification attempts. Redis is optional: when REDIS_ADDR is unset the
// throttle degrades to a no-op, matching the unthrottled original flow.
func RedisConnect() error {
	if RedisAddr == "" {
		return nil
	}
	Redis = redis.NewClient(&redis.Options{Addr: RedisAddr, Password: RedisPassword})
	if err := Redis.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// OTPAttemptAllowed counts a verification attempt for the email and reports
// whether it is still within the fixed window limit (5 attempts per 10
// minutes). A nil client always allows.
func OTPAttemptAllowed(ctx context.Context, rdb *redis.Client, email string) (bool, error) {
	if rdb == nil {
		return true, nil
	}
	key := "examportal:otp_attempts:" + email
	n, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("otp throttle incr: %w", err)
	}
	if n == 1 {
		if err := rdb.Expire(ctx, key, otpAttemptWindow).Err(); err != nil {
			return false, fmt.Errorf("otp throttle expire: %w", err)
		}
	}
	return n <= otpAttemptLimit, nil
}
