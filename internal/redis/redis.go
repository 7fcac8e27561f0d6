package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

// pairing codes expire if no admin claims them
const pairingCodeTTL = 15 * time.Minute

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

func pairingKey(code string) string {
	return fmt.Sprintf("pairing:%s", code)
}

// StagePairingCode records that a display with the given device id is
// waiting on this 6-digit code.
func StagePairingCode(ctx context.Context, code string, deviceID int) error {
	if err := Rdb.Set(ctx, pairingKey(code), deviceID, pairingCodeTTL).Err(); err != nil {
		log.Error().Err(err).Str("code", code).Msg("failed to stage pairing code")
		return err
	}
	return nil
}

// LookupPairingCode returns the waiting device id, or ok=false when the code
// is unknown or has expired.
func LookupPairingCode(ctx context.Context, code string) (int, bool, error) {
	deviceID, err := Rdb.Get(ctx, pairingKey(code)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		log.Error().Err(err).Str("code", code).Msg("failed to look up pairing code")
		return 0, false, err
	}
	return deviceID, true, nil
}

// ConsumePairingCode removes a claimed code so it cannot be claimed twice.
func ConsumePairingCode(ctx context.Context, code string) {
	if err := Rdb.Del(ctx, pairingKey(code)).Err(); err != nil {
		log.Error().Err(err).Str("code", code).Msg("failed to consume pairing code")
	}
}
