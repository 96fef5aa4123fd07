// Command stresstest sends concurrent recommendation requests to a server and checks the success rate.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/myrjola/fitrec/internal/e2etest"
	"github.com/myrjola/fitrec/internal/errors"
	"github.com/myrjola/fitrec/internal/logging"
)

const (
	requestTimeout          = 10 * time.Second
	numRequests             = 500
	maxConcurrentOperations = 20
	successRateThreshold    = 99.0
	expectedArgsCount       = 2
	percentageMultiplier    = 100
)

type profile struct {
	Age    float64 `json:"age"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

type result struct {
	BMICategory string `json:"bmi_category"`
	Error       string `json:"error"`
}

// randomProfile spans every BMI category and age bracket.
func randomProfile() profile {
	return profile{
		Age:    float64(15 + rand.IntN(60)),  //nolint:gosec,mnd // 15 to 74 years.
		Height: float64(150 + rand.IntN(45)), //nolint:gosec,mnd // 150 to 194 cm.
		Weight: float64(40 + rand.IntN(90)),  //nolint:gosec,mnd // 40 to 129 kg.
	}
}

func requestRecommendation(ctx context.Context, client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	p := randomProfile()
	var res result
	status, err := client.PostJSON(ctx, "/api/recommendations", p, &res)
	if err != nil {
		return errors.Wrap(err, "post recommendations")
	}
	if status != http.StatusOK {
		return errors.New("unexpected status",
			slog.Int("status", status), slog.String("error", res.Error), slog.Any("profile", p))
	}
	return nil
}

// RunLoadTest sends numRequests recommendation requests with bounded concurrency.
func RunLoadTest(ctx context.Context, client *e2etest.Client, logger *slog.Logger) error {
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting load test", slog.Int("num_requests", numRequests))

	var successCount, failureCount atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOperations)

	for range numRequests {
		g.Go(func() error {
			if err := requestRecommendation(ctx, client); err != nil {
				failureCount.Add(1)
				// Individual failures only lower the success rate.
				logger.LogAttrs(ctx, slog.LevelWarn, "request failed", errors.SlogError(err))
				return nil
			}
			successCount.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "load test failed")
	}

	successRate := float64(successCount.Load()) / float64(numRequests) * percentageMultiplier
	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed",
		slog.Int64("successful", successCount.Load()),
		slog.Int64("failed", failureCount.Load()),
		slog.Float64("success_rate", successRate))

	if successRate < successRateThreshold {
		return fmt.Errorf("load test failed: success rate %.1f%% below threshold", successRate)
	}
	return nil
}

func main() {
	logger := logging.NewLogger(os.Stdout, slog.LevelInfo, nil)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	client := e2etest.NewClient(url)
	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}

	if err := RunLoadTest(ctx, client, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "load test failed", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed successfully",
		slog.Duration("total_duration", time.Since(start)))
}
