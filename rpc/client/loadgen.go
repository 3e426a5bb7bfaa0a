package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ValentinKolb/kvbench/rpc/common"
	"github.com/ValentinKolb/kvbench/rpc/serializer"
	"github.com/ValentinKolb/kvbench/rpc/transport"
	"github.com/google/uuid"
	gometrics "github.com/rcrowley/go-metrics"
	"golang.org/x/time/rate"
)

// progressInterval is the minimum time between two progress log lines
const progressInterval = time.Second

// LoadGenerator sends a fixed number of requests, one at a time, and
// measures the round trip of each. A request that times out or fails is
// counted and skipped, never retried.
type LoadGenerator struct {
	rpcClientAdapter

	keys    *KeyGenerator
	limiter *rate.Limiter
	meter   gometrics.Meter
	runID   uuid.UUID
}

// NewLoadGenerator creates a load generator and connects its transport. A
// failure to set up the transport is returned and ends the benchmark.
func NewLoadGenerator(
	config common.ClientConfig,
	t transport.IRPCClientTransport,
	ser serializer.IRPCSerializer,
) (*LoadGenerator, error) {
	if config.Op != common.OpSet && config.Op != common.OpGet {
		return nil, fmt.Errorf("unsupported test %s, must be set or get", config.Op)
	}
	if config.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", config.Timeout)
	}

	adapter, err := newRPCClientAdapter(config, t, ser)
	if err != nil {
		return nil, err
	}

	limit := rate.Inf
	if config.Rate > 0 {
		limit = rate.Limit(config.Rate)
	}

	return &LoadGenerator{
		rpcClientAdapter: adapter,
		keys:             NewKeyGenerator(config.Op, config.KeySpace),
		limiter:          rate.NewLimiter(limit, max(config.Rate, 1)),
		meter:            gometrics.NewMeter(),
		runID:            uuid.New(),
	}, nil
}

// RunID identifies this run in logs and exports
func (g *LoadGenerator) RunID() string {
	return g.runID.String()
}

// Run sends config.Requests requests and returns the collected statistics.
// Cancelling ctx stops the run after the request in flight; the statistics
// gathered so far are returned.
func (g *LoadGenerator) Run(ctx context.Context) *BenchmarkStats {
	defer g.meter.Stop()

	stats := newBenchmarkStats(g.RunID(), g.config.Op, g.config.PayloadSize)
	Logger.Infof("starting run %s: %d %s requests against %s", g.RunID(), g.config.Requests, g.config.Op, g.config.Endpoint)

	start := time.Now()
	lastProgress := start

	for i := 0; i < g.config.Requests; i++ {
		if ctx.Err() != nil {
			stats.Interrupted = true
			break
		}
		if g.config.Rate > 0 {
			if err := g.limiter.Wait(ctx); err != nil {
				stats.Interrupted = true
				break
			}
		}

		g.runOne(stats, g.keys.Next())

		if now := time.Now(); now.Sub(lastProgress) >= progressInterval {
			lastProgress = now
			Logger.Infof("progress: %d/%d requests, %d ok, %.0f req/s (mean), %.0f req/s (1m)",
				i+1, g.config.Requests, stats.Succeeded, g.meter.RateMean(), g.meter.Rate1())
		}
	}

	stats.Elapsed = time.Since(start)
	Logger.Infof("finished run %s: %d/%d succeeded in %s", g.RunID(), stats.Succeeded, stats.Attempted, stats.Elapsed)
	return stats
}

// runOne sends a single command and records its outcome
func (g *LoadGenerator) runOne(stats *BenchmarkStats, cmd common.Command) {
	stats.LateDrained += g.drainLate()
	stats.Attempted++

	sendStart := time.Now()
	n, err := g.send(cmd)
	if err != nil {
		stats.SendErrors++
		Logger.Warningf("%s: send failed: %v", cmd, err)
		return
	}
	stats.BytesSent += int64(n)

	resp, err := g.receive()
	rtt := time.Since(sendStart)

	switch {
	case errors.Is(err, transport.ErrTimeout):
		stats.Timeouts++
		Logger.Warningf("%s: no response within %s", cmd, g.config.Timeout)
		return
	case err != nil:
		stats.ReceiveErrors++
		Logger.Warningf("%s: receive failed: %v", cmd, err)
		return
	case resp.Status != common.StatusOK:
		stats.ServerErrors++
		Logger.Debugf("%s: server returned %s", cmd, resp.Status)
		return
	}

	stats.recordSuccess(rtt)
	g.meter.Mark(1)

	if g.config.Verify && cmd.Op == common.OpGet && resp.Value != ExpectedValue(cmd.Key) {
		stats.Mismatches++
		Logger.Debugf("%s: got %d, want %d", cmd, resp.Value, ExpectedValue(cmd.Key))
	}
}

// Close releases the transport
func (g *LoadGenerator) Close() error {
	return g.transport.Close()
}
