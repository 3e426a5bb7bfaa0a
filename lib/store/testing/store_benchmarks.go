package testing

import (
	"testing"
)

// RunStoreBenchmarks runs the standard backend benchmarks for a store.IStore implementation.
func RunStoreBenchmarks(b *testing.B, name string, factory StoreFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Set", func(b *testing.B) {
			s := factory(b)
			defer s.Close()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				key := uint32(i % MinKeySpace)
				if err := s.Set(key, key); err != nil {
					b.Fatalf("Set failed: %v", err)
				}
			}
		})

		b.Run("Get", func(b *testing.B) {
			s := factory(b)
			defer s.Close()

			for k := uint32(0); k < MinKeySpace; k++ {
				_ = s.Set(k, k)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := s.Get(uint32(i % MinKeySpace)); err != nil {
					b.Fatalf("Get failed: %v", err)
				}
			}
		})

		b.Run("Mixed", func(b *testing.B) {
			s := factory(b)
			defer s.Close()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				key := uint32(i % MinKeySpace)
				var err error
				if i%2 == 0 {
					err = s.Set(key, key)
				} else {
					_, err = s.Get(key)
				}
				if err != nil {
					b.Fatalf("operation failed: %v", err)
				}
			}
		})
	})
}
