package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/ValentinKolb/kvbench/rpc/common"
)

const (
	// RTTs are recorded in microseconds between 1us and 60s
	minTrackableRTT = 1
	maxTrackableRTT = 60_000_000
	sigFigs         = 3

	mebibyte = 1024 * 1024
)

// BenchmarkStats collects the results of a benchmark run.
//
// The average RTT divides the RTT sum by the number of successful requests.
// AvgRTTAttempted divides by all attempted requests instead, which is biased
// low by timeouts but comparable to the output of older clients.
type BenchmarkStats struct {
	RunID       string
	Op          common.OpCode
	PayloadSize int

	Attempted     int // requests built and handed to the transport
	Succeeded     int // responses with status ok
	Timeouts      int // receive exceeded the timeout
	SendErrors    int // transport failure on send
	ReceiveErrors int // transport failure on receive or invalid frame
	ServerErrors  int // responses with a non-ok status
	Mismatches    int // verified GETs that returned an unexpected value
	LateDrained   int // late responses discarded after a timeout

	BytesSent int64         // request bytes handed to the transport
	TotalRTT  time.Duration // sum over successful requests
	MinRTT    time.Duration
	MaxRTT    time.Duration
	Elapsed   time.Duration // wall clock of the whole run

	Interrupted bool // the run was cancelled before all requests were sent

	histogram *hdrhistogram.Histogram
}

func newBenchmarkStats(runID string, op common.OpCode, payloadSize int) *BenchmarkStats {
	return &BenchmarkStats{
		RunID:       runID,
		Op:          op,
		PayloadSize: payloadSize,
		histogram:   hdrhistogram.New(minTrackableRTT, maxTrackableRTT, sigFigs),
	}
}

// recordSuccess adds the RTT of a successful request
func (s *BenchmarkStats) recordSuccess(rtt time.Duration) {
	s.Succeeded++
	s.TotalRTT += rtt
	if s.MinRTT == 0 || rtt < s.MinRTT {
		s.MinRTT = rtt
	}
	if rtt > s.MaxRTT {
		s.MaxRTT = rtt
	}

	us := rtt.Microseconds()
	if us < minTrackableRTT {
		us = minTrackableRTT
	} else if us > maxTrackableRTT {
		us = maxTrackableRTT
	}
	_ = s.histogram.RecordValue(us)
}

// Failed returns the number of attempted requests without a successful response
func (s *BenchmarkStats) Failed() int {
	return s.Attempted - s.Succeeded
}

// AvgRTT returns the mean RTT of the successful requests
func (s *BenchmarkStats) AvgRTT() time.Duration {
	if s.Succeeded == 0 {
		return 0
	}
	return s.TotalRTT / time.Duration(s.Succeeded)
}

// AvgRTTAttempted returns the RTT sum divided by all attempted requests
func (s *BenchmarkStats) AvgRTTAttempted() time.Duration {
	if s.Attempted == 0 {
		return 0
	}
	return s.TotalRTT / time.Duration(s.Attempted)
}

// Percentile returns the RTT at quantile q (0-100) of the successful requests
func (s *BenchmarkStats) Percentile(q float64) time.Duration {
	if s.histogram == nil || s.histogram.TotalCount() == 0 {
		return 0
	}
	return time.Duration(s.histogram.ValueAtQuantile(q)) * time.Microsecond
}

// Throughput returns the payload throughput in MiB/s, assuming PayloadSize
// bytes per successful response and counting only the time spent in round
// trips
func (s *BenchmarkStats) Throughput() float64 {
	if s.TotalRTT <= 0 {
		return 0
	}
	bytes := float64(s.Succeeded) * float64(s.PayloadSize)
	return bytes / mebibyte / s.TotalRTT.Seconds()
}

// RequestsPerSecond returns the successful requests per second of wall clock
func (s *BenchmarkStats) RequestsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Succeeded) / s.Elapsed.Seconds()
}

// String returns a formatted summary of the run
func (s *BenchmarkStats) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	us := func(d time.Duration) string {
		return fmt.Sprintf("%.3f us", float64(d)/float64(time.Microsecond))
	}

	addSection("Run")
	addField("Run ID", s.RunID)
	addField("Test", s.Op.String())
	addField("Elapsed", s.Elapsed.String())
	if s.Interrupted {
		addField("Interrupted", "yes")
	}

	addSection("Requests")
	addField("Attempted", fmt.Sprintf("%d", s.Attempted))
	addField("Succeeded", fmt.Sprintf("%d", s.Succeeded))
	addField("Timeouts", fmt.Sprintf("%d", s.Timeouts))
	addField("Send Errors", fmt.Sprintf("%d", s.SendErrors))
	addField("Receive Errors", fmt.Sprintf("%d", s.ReceiveErrors))
	addField("Server Errors", fmt.Sprintf("%d", s.ServerErrors))
	if s.Op == common.OpGet {
		addField("Mismatches", fmt.Sprintf("%d", s.Mismatches))
	}
	if s.LateDrained > 0 {
		addField("Late Responses", fmt.Sprintf("%d", s.LateDrained))
	}

	addSection("Latency")
	addField("Avg. RTT", us(s.AvgRTT()))
	addField("Avg. RTT (attempted)", us(s.AvgRTTAttempted()))
	addField("Min RTT", us(s.MinRTT))
	addField("P50 RTT", us(s.Percentile(50)))
	addField("P90 RTT", us(s.Percentile(90)))
	addField("P99 RTT", us(s.Percentile(99)))
	addField("Max RTT", us(s.MaxRTT))

	addSection("Throughput")
	addField("Payload", fmt.Sprintf("%d bytes/response", s.PayloadSize))
	addField("Throughput", fmt.Sprintf("%.6f MiB/s", s.Throughput()))
	addField("Requests/sec", fmt.Sprintf("%.0f", s.RequestsPerSecond()))

	return sb.String()
}
