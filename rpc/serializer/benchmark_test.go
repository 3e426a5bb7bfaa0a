package serializer

import (
	"testing"

	"github.com/ValentinKolb/kvbench/rpc/common"
)

// benchmarkCommands returns a set of commands for targeted benchmarking
func benchmarkCommands() map[string]common.Command {
	return map[string]common.Command{
		"SmallGet": common.NewGetCommand(1),
		"LargeGet": common.NewGetCommand(4294967295),
		"SmallSet": common.NewSetCommand(1, 1),
		"LargeSet": common.NewSetCommand(4294967295, 4294967295),
	}
}

// BenchmarkSerialize benchmarks serialization for all implementations
func BenchmarkSerialize(b *testing.B) {
	for name, factory := range testSerializers {
		for cmdName, cmd := range benchmarkCommands() {
			b.Run(name+"_"+cmdName, func(b *testing.B) {
				serializer := factory()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					if _, err := serializer.Serialize(cmd); err != nil {
						b.Fatalf("Failed to serialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkDeserialize benchmarks deserialization, which is the parse phase of the server
func BenchmarkDeserialize(b *testing.B) {
	for name, factory := range testSerializers {
		serializer := factory()

		for cmdName, cmd := range benchmarkCommands() {
			data, err := serializer.Serialize(cmd)
			if err != nil {
				b.Fatalf("Failed to serialize %s with %s: %v", cmdName, name, err)
			}

			b.Run(name+"_"+cmdName, func(b *testing.B) {
				b.ReportMetric(float64(len(data)), "bytes")
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					var result common.Command
					if err := serializer.Deserialize(data, &result); err != nil {
						b.Fatalf("Failed to deserialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkEncodeResponse benchmarks writing a response frame
func BenchmarkEncodeResponse(b *testing.B) {
	frame := make([]byte, common.DefaultFrameSize)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = EncodeResponse(frame, Response{Value: uint32(i)})
	}
}
