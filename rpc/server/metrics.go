package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/pprof"
	"sort"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/kvbench/lib/timing"
	"github.com/ValentinKolb/kvbench/rpc/common"
	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
)

// maxTrackedPeers bounds the per-peer table. Requests from further peers are
// counted under otherPeers.
const (
	maxTrackedPeers = 1024
	otherPeers      = "other"
)

// --------------------------------------------------------------------------
// Processor metrics
// --------------------------------------------------------------------------

// processorMetrics holds the Prometheus metrics of one processor. All updates
// happen after the response was sent.
type processorMetrics struct {
	set *metrics.Set

	requests   map[common.OpCode]*metrics.Counter
	statuses   map[common.Status]*metrics.Counter
	sendErrors *metrics.Counter
	recvErrors *metrics.Counter
	batches    *metrics.Counter
	phases     [len(timing.Phases)]*metrics.Histogram

	// read by the gauges on the HTTP goroutine, stored as float64 bits
	batchMeans [len(timing.Phases)]atomic.Uint64
}

func newProcessorMetrics(backend string) *processorMetrics {
	m := &processorMetrics{
		set:      metrics.NewSet(),
		requests: make(map[common.OpCode]*metrics.Counter),
		statuses: make(map[common.Status]*metrics.Counter),
	}

	for _, op := range []common.OpCode{common.OpSet, common.OpGet} {
		m.requests[op] = m.set.NewCounter(fmt.Sprintf(`kvbench_server_requests_total{backend=%q,op=%q}`, backend, op))
	}
	for _, st := range []common.Status{common.StatusOK, common.StatusMalformed, common.StatusKeyOutOfRange, common.StatusDeviceTimeout, common.StatusInternalError} {
		m.statuses[st] = m.set.NewCounter(fmt.Sprintf(`kvbench_server_responses_total{backend=%q,status=%q}`, backend, st))
	}
	m.sendErrors = m.set.NewCounter(fmt.Sprintf(`kvbench_server_send_errors_total{backend=%q}`, backend))
	m.recvErrors = m.set.NewCounter(fmt.Sprintf(`kvbench_server_receive_errors_total{backend=%q}`, backend))
	m.batches = m.set.NewCounter(fmt.Sprintf(`kvbench_server_batches_total{backend=%q}`, backend))

	for i, phase := range timing.Phases {
		m.phases[i] = m.set.NewHistogram(fmt.Sprintf(`kvbench_server_phase_seconds{backend=%q,phase=%q}`, backend, phase))

		idx := i
		m.set.NewGauge(fmt.Sprintf(`kvbench_server_batch_mean_microseconds{backend=%q,phase=%q}`, backend, phase), func() float64 {
			return math.Float64frombits(m.batchMeans[idx].Load())
		})
	}
	return m
}

// observe records one served request
func (m *processorMetrics) observe(op common.OpCode, status common.Status, sample timing.Sample) {
	if c, ok := m.requests[op]; ok {
		c.Inc()
	}
	if c, ok := m.statuses[status]; ok {
		c.Inc()
	}
	for i, d := range sample.Durations() {
		m.phases[i].Update(d.Seconds())
	}
}

// observeBatch publishes the means of a flushed batch
func (m *processorMetrics) observeBatch(stats timing.BatchStats) {
	m.batches.Inc()
	for i, us := range stats.Mean.Micros() {
		m.batchMeans[i].Store(math.Float64bits(us))
	}
}

// --------------------------------------------------------------------------
// Peer table
// --------------------------------------------------------------------------

// peerTable counts requests per client address. It is written by the request
// loop and read concurrently by the HTTP endpoint.
type peerTable struct {
	counts *xsync.MapOf[string, *xsync.Counter]
}

func newPeerTable() *peerTable {
	return &peerTable{counts: xsync.NewMapOf[string, *xsync.Counter]()}
}

func (t *peerTable) inc(peer net.Addr) {
	key := otherPeers
	if peer != nil {
		key = peer.String()
	}
	if _, tracked := t.counts.Load(key); !tracked && t.counts.Size() >= maxTrackedPeers {
		key = otherPeers
	}
	c, _ := t.counts.LoadOrCompute(key, xsync.NewCounter)
	c.Inc()
}

// snapshot returns the request count per peer
func (t *peerTable) snapshot() map[string]int64 {
	out := make(map[string]int64, t.counts.Size())
	t.counts.Range(func(peer string, c *xsync.Counter) bool {
		out[peer] = c.Value()
		return true
	})
	return out
}

func (t *peerTable) writeTo(w io.Writer) {
	snap := t.snapshot()
	peers := make([]string, 0, len(snap))
	for p := range snap {
		peers = append(peers, p)
	}
	sort.Strings(peers)
	for _, p := range peers {
		fmt.Fprintf(w, "%s %d\n", p, snap[p])
	}
}

// --------------------------------------------------------------------------
// HTTP endpoint
// --------------------------------------------------------------------------

// startMetricsServer serves /metrics (Prometheus text format), /peers and the
// pprof handlers on endpoint. It runs on its own goroutine and never touches
// the request loop.
func startMetricsServer(endpoint string, m *processorMetrics, peers *peerTable) (addr net.Addr, stop func(), err error) {
	ln, err := net.Listen("tcp", endpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen on metrics endpoint %s: %w", endpoint, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		m.set.WritePrometheus(w)
		metrics.WriteProcessMetrics(w)
	})
	mux.HandleFunc("/peers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		peers.writeTo(w)
	})
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Errorf("metrics server failed: %v", err)
		}
	}()
	Logger.Infof("serving metrics on http://%s/metrics", ln.Addr())

	return ln.Addr(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
