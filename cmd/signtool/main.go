// signtool computes the canonical string and request signature for a given
// set of inputs. Useful when debugging signature mismatches against the
// exchange: run it with the same path, query, body and timestamp as the
// failing request and diff the output against what the adapter sent.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/awnumar/memguard"

	"github.com/ozbot-trading/ozbot/internal/adapter/btcmarkets"
)

func main() {
	defer memguard.Purge()

	var (
		key    = flag.String("key", "", "API key")
		secret = flag.String("secret", "", "base64-encoded API secret")
		path   = flag.String("path", "/account/balance", "request path")
		query  = flag.String("query", "", "encoded query string, without '?'")
		body   = flag.String("body", "", "request body")
		ts     = flag.Int64("ts", 0, "timestamp in epoch milliseconds (default: now)")
	)
	flag.Parse()

	if *key == "" || *secret == "" {
		fmt.Fprintln(os.Stderr, "both -key and -secret are required")
		flag.Usage()
		os.Exit(2)
	}

	tsMillis := *ts
	if tsMillis == 0 {
		tsMillis = time.Now().UnixMilli()
	}

	signer, err := btcmarkets.NewSigner(*key, *secret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad credentials: %v\n", err)
		os.Exit(1)
	}

	headers, err := signer.Headers(*path, *query, tsMillis, *body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "signing failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("canonical string:\n%s\\n%s\\n%d\\n%s\n\n", *path, *query, tsMillis, *body)
	fmt.Printf("timestamp: %d\n", tsMillis)
	fmt.Printf("signature: %s\n", headers["signature"])
}
