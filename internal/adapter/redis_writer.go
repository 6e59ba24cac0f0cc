package adapter

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisClient abstracts the Redis operations used by QuoteWriter.
// In production this is satisfied by goRedisClient; in tests by a mock.
type RedisClient interface {
	HSet(ctx context.Context, key string, values ...any) error
}

// goRedisClient adapts *redis.Client to the RedisClient interface.
type goRedisClient struct {
	c *redis.Client
}

// NewGoRedisClient wraps a go-redis client for use with QuoteWriter.
func NewGoRedisClient(c *redis.Client) RedisClient {
	return goRedisClient{c: c}
}

func (g goRedisClient) HSet(ctx context.Context, key string, values ...any) error {
	return g.c.HSet(ctx, key, values...).Err()
}

// quoteSnapshot holds the last-written quote for a market so duplicate
// writes can be skipped.
type quoteSnapshot struct {
	Bid  string
	Ask  string
	Last string
}

// QuoteWriter persists best bid/ask/last quotes into Redis using the schema:
//
//	Key:    quote:{exchange}:{market_id}
//	Fields: bid, ask, last, ts
//
// Writes are non-blocking: quotes are buffered in an internal channel and
// flushed by a dedicated goroutine. Duplicate quotes are suppressed.
type QuoteWriter struct {
	client RedisClient
	feed   <-chan Quote
	buf    chan Quote

	mu   sync.Mutex
	last map[string]quoteSnapshot // keyed by Redis key
}

// NewQuoteWriter creates a QuoteWriter that reads quotes from feed and
// writes them to the given Redis client.
func NewQuoteWriter(client RedisClient, feed <-chan Quote) *QuoteWriter {
	return &QuoteWriter{
		client: client,
		feed:   feed,
		buf:    make(chan Quote, 1024),
		last:   make(map[string]quoteSnapshot),
	}
}

// Run starts two goroutines: one to drain the feed into an internal buffer,
// and one to flush buffered quotes to Redis. It blocks until ctx is
// cancelled.
func (qw *QuoteWriter) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)

	// Ingestion: drain the feed into the internal buffer so producers are
	// never blocked on Redis latency.
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case q, ok := <-qw.feed:
				if !ok {
					return
				}
				select {
				case qw.buf <- q:
				default:
					// Buffer full: drop rather than block the producer.
				}
			}
		}
	}()

	// Flush: write buffered quotes to Redis.
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case q := <-qw.buf:
				qw.write(ctx, q)
			}
		}
	}()

	wg.Wait()
}

// write persists one quote unless it duplicates the previous write for the
// same market.
func (qw *QuoteWriter) write(ctx context.Context, q Quote) {
	key := fmt.Sprintf("quote:%s:%s", q.Exchange, q.MarketID)
	snap := quoteSnapshot{Bid: q.Bid, Ask: q.Ask, Last: q.Last}

	qw.mu.Lock()
	if prev, ok := qw.last[key]; ok && prev == snap {
		qw.mu.Unlock()
		return
	}
	qw.last[key] = snap
	qw.mu.Unlock()

	err := qw.client.HSet(ctx, key,
		"bid", q.Bid,
		"ask", q.Ask,
		"last", q.Last,
		"ts", strconv.FormatInt(q.Timestamp.UnixMilli(), 10),
	)
	if err != nil {
		log.Printf("quote writer: HSet %s failed: %v", key, err)
	}
}
