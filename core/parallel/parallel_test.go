package parallel

import (
	"sync/atomic"
	"testing"
)

func TestParallelize_CoversEveryIndexOnce(t *testing.T) {
	for _, items := range []int{1, 2, 7, 100, 4097} {
		seen := make([]int32, items)
		Parallelize(items, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Fatalf("items=%d: index %d visited %d times", items, i, c)
			}
		}
	}
}

func TestParallelizeWithThreshold_Sequential(t *testing.T) {
	tests := []struct {
		name      string
		items     int
		threshold int
		wantCalls int32
	}{
		{"below threshold", 10, 100, 1},
		{"equal threshold", 100, 100, 1},
		{"negative threshold", 5000, -1, 1},
		{"empty", 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			ParallelizeWithThreshold(tt.items, tt.threshold, func(start, end int) {
				atomic.AddInt32(&calls, 1)
				if start != 0 || end != tt.items {
					t.Errorf("sequential call got range [%d,%d)", start, end)
				}
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestMap_PreservesOrder(t *testing.T) {
	for _, threshold := range []int{-1, 0, 1 << 20} {
		got := Map(1000, threshold, func(i int) int { return i * i })
		if len(got) != 1000 {
			t.Fatalf("len = %d", len(got))
		}
		for i, v := range got {
			if v != i*i {
				t.Fatalf("threshold=%d: got[%d] = %d", threshold, i, v)
			}
		}
	}
	if Map(0, 0, func(i int) int { return i }) != nil {
		t.Error("Map over zero items should return nil")
	}
}

func BenchmarkMap(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Map(10000, 4096, func(i int) float64 { return float64(i) * 0.5 })
	}
}
