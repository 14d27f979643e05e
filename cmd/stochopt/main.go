// Command stochopt fetches historical bars from an exchange and searches
// Stochastic Oscillator settings for the most profitable crossover strategy.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "stochopt:", err)
		stop()
		os.Exit(1)
	}
}
