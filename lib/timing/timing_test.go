package timing

import (
	"testing"
	"time"
)

func sample(receive, parse, process, send time.Duration) Sample {
	return Sample{Receive: receive, Parse: parse, Process: process, Send: send}
}

func TestNewRecorder(t *testing.T) {
	tests := []struct {
		name      string
		warmup    int
		batchSize int
		wantErr   bool
	}{
		{"defaults", DefaultWarmup, DefaultBatchSize, false},
		{"no warm-up", 0, 1, false},
		{"negative warm-up", -1, 10, true},
		{"zero batch", 10, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecorder(tt.warmup, tt.batchSize)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewRecorder(%d, %d) error = %v, wantErr %v", tt.warmup, tt.batchSize, err, tt.wantErr)
			}
		})
	}
}

func TestMarkAndSample(t *testing.T) {
	r, _ := NewRecorder(0, 10)

	base := time.Now()
	r.marks[StageStart] = base
	r.marks[StageReceived] = base.Add(10 * time.Microsecond)
	r.marks[StageParsed] = base.Add(12 * time.Microsecond)
	r.marks[StageProcessed] = base.Add(20 * time.Microsecond)
	r.marks[StageSent] = base.Add(25 * time.Microsecond)

	want := sample(10*time.Microsecond, 2*time.Microsecond, 8*time.Microsecond, 5*time.Microsecond)
	got := r.Sample()
	if got != want {
		t.Errorf("Sample() = %+v, want %+v", got, want)
	}
	if got.Total() != 25*time.Microsecond {
		t.Errorf("Total() = %s, want 25us", got.Total())
	}
	if us := got.Micros(); us != [4]float64{10, 2, 8, 5} {
		t.Errorf("Micros() = %v, want [10 2 8 5]", us)
	}
}

func TestMarksAreMonotonic(t *testing.T) {
	r, _ := NewRecorder(0, 10)
	for s := StageStart; s <= StageSent; s++ {
		r.Mark(s)
	}

	for i, d := range r.Sample().Durations() {
		if d < 0 {
			t.Errorf("phase %s has negative duration %s", Phases[i], d)
		}
	}
}

func TestWarmupIsDiscarded(t *testing.T) {
	r, _ := NewRecorder(3, 100)

	// warm-up samples are huge, so any leak into the mean is visible
	for i := 0; i < 3; i++ {
		if r.Accumulate(sample(time.Second, time.Second, time.Second, time.Second)) {
			t.Fatalf("warm-up sample %d completed a batch", i)
		}
	}
	if r.Pending() != 0 {
		t.Fatalf("Pending() = %d after warm-up, want 0", r.Pending())
	}

	r.Accumulate(sample(2*time.Microsecond, 4*time.Microsecond, 6*time.Microsecond, 8*time.Microsecond))
	r.Accumulate(sample(4*time.Microsecond, 6*time.Microsecond, 8*time.Microsecond, 10*time.Microsecond))

	stats := r.Flush()
	if stats.Count != 2 {
		t.Errorf("Count = %d, want 2", stats.Count)
	}
	want := sample(3*time.Microsecond, 5*time.Microsecond, 7*time.Microsecond, 9*time.Microsecond)
	if stats.Mean != want {
		t.Errorf("Mean = %+v, want %+v", stats.Mean, want)
	}
	if r.Seen() != 5 {
		t.Errorf("Seen() = %d, want 5", r.Seen())
	}
}

func TestBatchBoundary(t *testing.T) {
	r, _ := NewRecorder(0, 4)
	s := sample(time.Microsecond, time.Microsecond, time.Microsecond, time.Microsecond)

	for i := 1; i <= 3; i++ {
		if r.Accumulate(s) {
			t.Fatalf("batch completed after %d samples, want 4", i)
		}
	}
	if !r.Accumulate(s) {
		t.Fatalf("batch not completed after 4 samples")
	}

	first := r.Flush()
	if first.Batch != 1 || first.Count != 4 {
		t.Errorf("first flush = batch %d count %d, want batch 1 count 4", first.Batch, first.Count)
	}
	if r.Pending() != 0 {
		t.Errorf("Pending() = %d after flush, want 0", r.Pending())
	}

	// sums are reset, the next batch starts from zero
	r.Accumulate(sample(3*time.Microsecond, 0, 0, 0))
	second := r.Flush()
	if second.Batch != 2 || second.Mean.Receive != 3*time.Microsecond {
		t.Errorf("second flush = %+v, want batch 2 with receive 3us", second)
	}
}

func TestWarmupOnlyOnce(t *testing.T) {
	r, _ := NewRecorder(2, 2)
	s := sample(time.Microsecond, 0, 0, 0)

	// two warm-up samples, then the first batch
	for i := 0; i < 3; i++ {
		r.Accumulate(s)
	}
	if !r.Accumulate(s) {
		t.Fatalf("first batch not completed after warm-up plus 2 samples")
	}
	r.Flush()

	// the second batch needs no new warm-up
	r.Accumulate(s)
	if !r.Accumulate(s) {
		t.Errorf("second batch not completed after 2 samples")
	}
	if r.Seen() != 6 {
		t.Errorf("Seen() = %d, want 6", r.Seen())
	}
}

func TestFlushEmpty(t *testing.T) {
	r, _ := NewRecorder(0, 10)
	stats := r.Flush()
	if stats.Count != 0 || stats.Mean != (Sample{}) {
		t.Errorf("Flush() on empty batch = %+v, want zero stats", stats)
	}
}

func TestStageString(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{StageStart, "start"},
		{StageReceived, "received"},
		{StageParsed, "parsed"},
		{StageProcessed, "processed"},
		{StageSent, "sent"},
		{numStages, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.stage.String(); got != tt.want {
			t.Errorf("Stage(%d).String() = %q, want %q", tt.stage, got, tt.want)
		}
	}
}

func BenchmarkMark(b *testing.B) {
	r, _ := NewRecorder(0, DefaultBatchSize)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r.Mark(StageStart)
		r.Mark(StageReceived)
		r.Mark(StageParsed)
		r.Mark(StageProcessed)
		r.Mark(StageSent)
		if r.Accumulate(r.Sample()) {
			r.Flush()
		}
	}
}
