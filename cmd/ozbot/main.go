package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/awnumar/memguard"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ozbot-trading/ozbot/internal/adapter"
	"github.com/ozbot-trading/ozbot/internal/adapter/btcmarkets"
	"github.com/ozbot-trading/ozbot/internal/config"
)

const pollInterval = 10 * time.Second

func main() {
	defer memguard.Purge()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("ozbot starting (env=%s)\n", cfg.Env)

	exchange, err := buildAdapter(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build exchange adapter: %v\n", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	feed := make(chan adapter.Quote, 256)
	writer := adapter.NewQuoteWriter(adapter.NewGoRedisClient(rdb), feed)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go writer.Run(ctx)
	go pollQuotes(ctx, exchange, feed)

	fmt.Printf("ozbot ready — polling %s every %s\n", exchange.ImplName(), pollInterval)

	<-ctx.Done()
	fmt.Println("ozbot shutting down")
}

func buildAdapter(cfg *config.Config) (*btcmarkets.Adapter, error) {
	buyFee, err := decimal.NewFromString(cfg.Trading.BuyFeePercent)
	if err != nil {
		return nil, fmt.Errorf("bad buy fee percent %q: %w", cfg.Trading.BuyFeePercent, err)
	}
	sellFee, err := decimal.NewFromString(cfg.Trading.SellFeePercent)
	if err != nil {
		return nil, fmt.Errorf("bad sell fee percent %q: %w", cfg.Trading.SellFeePercent, err)
	}

	transport := adapter.NewHTTPTransport(
		time.Duration(cfg.Network.ConnectionTimeoutSec)*time.Second,
		cfg.Network.Codes(),
		cfg.Network.Messages(),
	)

	return btcmarkets.New(btcmarkets.Config{
		BaseURL:          cfg.Exchange.BaseURL,
		Key:              cfg.Exchange.Key,
		Secret:           cfg.Exchange.Secret,
		BuyFeePercent:    buyFee,
		SellFeePercent:   sellFee,
		OrderType:        cfg.Trading.OrderType,
		OrdersLimit:      cfg.Trading.OrdersLimit,
		OrdersSinceHours: cfg.Trading.OrdersSinceHours,
	}, transport,
		btcmarkets.WithObserver(adapter.LogObserver{}),
		btcmarkets.WithHealthBreaker(adapter.NewHealthBreaker(adapter.DefaultHealthBreakerConfig())),
	)
}

// pollQuotes polls every market's tick on a fixed interval and forwards the
// result to the quote writer feed.
func pollQuotes(ctx context.Context, exchange *btcmarkets.Adapter, feed chan<- adapter.Quote) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, m := range btcmarkets.Markets() {
				t, err := exchange.GetTicker(m.ID)
				if err != nil {
					log.Printf("tick %s: %v", m.ID, err)
					continue
				}
				select {
				case feed <- adapter.Quote{
					Exchange:  adapter.ExchangeBTCMarkets,
					MarketID:  m.ID,
					Bid:       t.Bid.String(),
					Ask:       t.Ask.String(),
					Last:      t.Last.String(),
					Timestamp: time.Unix(t.Timestamp, 0),
				}:
				default:
					// Feed full: skip rather than stall the poll loop.
				}
			}
		}
	}
}
