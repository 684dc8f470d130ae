package report

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher keeps the latest book snapshot and fill list of a ticker
// under book:<ticker> and fills:<ticker>.
type RedisPublisher struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedisPublisher(client redis.Cmdable, keyPrefix string, ttl time.Duration) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		prefix: keyPrefix,
		ttl:    ttl,
	}
}

func (p *RedisPublisher) Name() string {
	return "redis"
}

func (p *RedisPublisher) BookKey(ticker string) string {
	return p.prefix + "book:" + ticker
}

func (p *RedisPublisher) FillsKey(ticker string) string {
	return p.prefix + "fills:" + ticker
}

// Publish replaces both keys in one MULTI/EXEC so readers never see the book
// of one run next to the fills of another.
func (p *RedisPublisher) Publish(ctx context.Context, r *Report) error {
	book, err := json.Marshal(r.Book)
	if err != nil {
		return err
	}
	fills, err := encodeEvents(r.Events())
	if err != nil {
		return err
	}

	bookKey, fillsKey := p.BookKey(r.Ticker), p.FillsKey(r.Ticker)

	pipe := p.client.TxPipeline()
	pipe.Set(ctx, bookKey, book, p.ttl)
	pipe.Del(ctx, fillsKey)
	if len(fills) > 0 {
		pipe.RPush(ctx, fillsKey, fills...)
		if p.ttl > 0 {
			pipe.Expire(ctx, fillsKey, p.ttl)
		}
	}
	_, err = pipe.Exec(ctx)
	return err
}

func encodeEvents(events []FillEvent) ([]any, error) {
	out := make([]any, 0, len(events))
	for _, ev := range events {
		b, err := json.Marshal(ev)
		if err != nil {
			return nil, err
		}
		out = append(out, string(b))
	}
	return out, nil
}
