// Package timing implements the per-stage latency instrumentation of the
// request loop.
//
// A request passes the stages Start, Received, Parsed, Processed and Sent. The
// Recorder stores one monotonic timestamp per stage (Mark) and derives the
// four phase durations receive, parse, process and send from consecutive
// marks (Sample).
//
// Samples are aggregated into running sums (Accumulate). The first samples
// after process start are discarded as warm-up, so cold caches and page
// faults do not skew the means. Once a batch of samples is complete, Flush
// returns the per-phase means and resets the sums.
//
// Marking is a single clock read into a fixed array. All aggregation happens
// after the response was sent and is therefore not part of any measured phase.
package timing
