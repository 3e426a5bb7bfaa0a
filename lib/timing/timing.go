package timing

import (
	"fmt"
	"strings"
	"time"

	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("timing")

const (
	// DefaultWarmup is the number of samples discarded before aggregation starts
	DefaultWarmup = 10
	// DefaultBatchSize is the number of accumulated samples after which a batch is reported
	DefaultBatchSize = 100_000
)

// --------------------------------------------------------------------------
// Stages
// --------------------------------------------------------------------------

// Stage is a point in the life of a request at which a timestamp is taken.
type Stage int

const (
	StageStart     Stage = iota // before blocking on the transport
	StageReceived               // datagram received
	StageParsed                 // command decoded
	StageProcessed              // backend returned
	StageSent                   // response handed to the transport

	numStages
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageReceived:
		return "received"
	case StageParsed:
		return "parsed"
	case StageProcessed:
		return "processed"
	case StageSent:
		return "sent"
	default:
		return "unknown"
	}
}

// Phases are the intervals between two consecutive stages, in order.
var Phases = [...]string{"receive", "parse", "process", "send"}

// --------------------------------------------------------------------------
// Sample
// --------------------------------------------------------------------------

// Sample holds the four phase durations of a single request.
type Sample struct {
	Receive time.Duration // Start -> Received
	Parse   time.Duration // Received -> Parsed
	Process time.Duration // Parsed -> Processed
	Send    time.Duration // Processed -> Sent
}

// Durations returns the phase durations in the order of Phases.
func (s Sample) Durations() [len(Phases)]time.Duration {
	return [len(Phases)]time.Duration{s.Receive, s.Parse, s.Process, s.Send}
}

// Total returns the time from Start to Sent.
func (s Sample) Total() time.Duration {
	return s.Receive + s.Parse + s.Process + s.Send
}

// Micros returns the phase durations in microseconds.
func (s Sample) Micros() [len(Phases)]float64 {
	var us [len(Phases)]float64
	for i, d := range s.Durations() {
		us[i] = float64(d) / float64(time.Microsecond)
	}
	return us
}

// --------------------------------------------------------------------------
// Batch statistics
// --------------------------------------------------------------------------

// BatchStats is the result of a flush: the mean of every phase over the
// accumulated samples of one batch.
type BatchStats struct {
	Batch uint64 // sequence number of the batch, starting at 1
	Count uint64 // number of samples in the batch
	Mean  Sample
}

func (b BatchStats) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("batch %d (%d samples):", b.Batch, b.Count))
	for i, us := range b.Mean.Micros() {
		sb.WriteString(fmt.Sprintf(" %s=%.3fus", Phases[i], us))
	}
	sb.WriteString(fmt.Sprintf(" total=%.3fus", float64(b.Mean.Total())/float64(time.Microsecond)))
	return sb.String()
}

// --------------------------------------------------------------------------
// Recorder
// --------------------------------------------------------------------------

// Recorder takes the stage timestamps of the request in flight and keeps the
// running sums of the current batch. Mark only reads the monotonic clock and
// stores the result into a fixed array, it never allocates.
//
// Warm-up happens once per Recorder: the first warmup samples of its lifetime
// are discarded, and batches after a Flush start accumulating right away
// without a new warm-up.
//
// A Recorder is owned by a single request loop and is not thread-safe.
type Recorder struct {
	marks [numStages]time.Time

	warmup    uint64
	batchSize uint64

	seen    uint64 // samples offered to Accumulate
	batches uint64 // flushed batches
	count   uint64 // samples in the current batch
	sums    [len(Phases)]time.Duration
}

// NewRecorder creates a recorder that discards the first warmup samples and
// reports a batch every batchSize accumulated samples.
func NewRecorder(warmup int, batchSize int) (*Recorder, error) {
	if warmup < 0 {
		return nil, fmt.Errorf("warm-up must not be negative, got %d", warmup)
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("batch size must be at least 1, got %d", batchSize)
	}
	return &Recorder{
		warmup:    uint64(warmup),
		batchSize: uint64(batchSize),
	}, nil
}

// Mark records the current monotonic time for stage.
func (r *Recorder) Mark(stage Stage) {
	r.marks[stage] = time.Now()
}

// Sample computes the phase durations from the consecutive marks of the
// current request.
func (r *Recorder) Sample() Sample {
	return Sample{
		Receive: r.marks[StageReceived].Sub(r.marks[StageStart]),
		Parse:   r.marks[StageParsed].Sub(r.marks[StageReceived]),
		Process: r.marks[StageProcessed].Sub(r.marks[StageParsed]),
		Send:    r.marks[StageSent].Sub(r.marks[StageProcessed]),
	}
}

// Accumulate adds s to the running sums of the current batch unless it is
// still part of the warm-up. It reports whether the batch is complete and
// should be flushed.
func (r *Recorder) Accumulate(s Sample) bool {
	r.seen++
	if r.seen <= r.warmup {
		if r.seen == r.warmup {
			Logger.Debugf("warm-up complete after %d samples", r.warmup)
		}
		return false
	}

	for i, d := range s.Durations() {
		r.sums[i] += d
	}
	r.count++
	return r.count >= r.batchSize
}

// Flush returns the per-phase means of the current batch and resets the
// sums. Flushing an empty batch returns zero means.
func (r *Recorder) Flush() BatchStats {
	r.batches++
	stats := BatchStats{
		Batch: r.batches,
		Count: r.count,
	}

	if r.count > 0 {
		n := time.Duration(r.count)
		stats.Mean = Sample{
			Receive: r.sums[0] / n,
			Parse:   r.sums[1] / n,
			Process: r.sums[2] / n,
			Send:    r.sums[3] / n,
		}
	}

	r.sums = [len(Phases)]time.Duration{}
	r.count = 0
	return stats
}

// Pending returns the number of samples accumulated since the last flush.
func (r *Recorder) Pending() uint64 {
	return r.count
}

// Seen returns the number of samples offered, including the warm-up.
func (r *Recorder) Seen() uint64 {
	return r.seen
}
