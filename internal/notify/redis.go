package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"arena-league/internal/constants"
	"arena-league/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Redis appends every completed match to a capped stream.
type Redis struct {
	client *redis.Client
	stream string
}

func NewRedis(redisURL string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return &Redis{client: redis.NewClient(opt), stream: constants.MatchStream}, nil
}

func (r *Redis) MatchCompleted(ctx context.Context, res domain.MatchResult) error {
	values, err := streamValues(res)
	if err != nil {
		return err
	}
	err = r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		MaxLen: constants.MatchStreamMaxLen,
		Approx: true,
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish match %s: %w", res.MatchID, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func streamValues(res domain.MatchResult) (map[string]any, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("failed to encode match %s: %w", res.MatchID, err)
	}
	return map[string]any{
		"match_id":  res.MatchID,
		"winner_id": res.WinnerRosterID,
		"data":      string(data),
		"timestamp": res.CreatedAt.Unix(),
	}, nil
}
