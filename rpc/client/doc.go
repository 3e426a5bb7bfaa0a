// Package client implements the load-generating side of the benchmark.
//
// Key Components:
//
//   - KeyGenerator: builds SET or GET commands with a key counter that wraps
//     to 0 at the key space (default 16384), independent of the server's
//     capacity. SET commands write the key as value.
//
//   - LoadGenerator: sends one request at a time and waits for its response
//     with a bounded timeout. Timeouts and transport failures are counted and
//     the request is skipped, never retried. Late responses to a timed out
//     request are drained before the next request is sent. Requests can be
//     paced with a token bucket (golang.org/x/time/rate); live progress is
//     logged from a go-metrics meter.
//
//   - BenchmarkStats: RTT sum, counters and an HDR histogram of the successful
//     round trips. The average RTT divides by successful requests;
//     AvgRTTAttempted divides by attempted requests. Throughput assumes a fixed
//     payload size per response.
//
//   - NewRPCStore: a store.IStore backed by a remote server, useful to run
//     the store conformance tests end to end.
//
// The client is single-threaded: exactly one request is outstanding at any
// time.
package client
