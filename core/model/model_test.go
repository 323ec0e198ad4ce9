package model

import (
	"bytes"
	"math"
	"path/filepath"
	"sync"
	"testing"

	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
)

func TestStateManager_Lifecycle(t *testing.T) {
	s := NewStateManager()

	if s.IsFitted() {
		t.Fatal("new StateManager should not be fitted")
	}
	err := s.RequireFitted("Discretizer", "Predict")
	if !woeerrors.IsNotFitted(err) {
		t.Fatalf("RequireFitted() = %v, want NotFittedError", err)
	}

	_ = s.WithStateMut(func() error {
		s.Install(100, 7)
		return nil
	})
	if !s.IsFitted() {
		t.Fatal("Install should mark the state fitted")
	}
	if n, e := s.GetDimensions(); n != 100 || e != 7 {
		t.Errorf("GetDimensions() = (%d, %d), want (100, 7)", n, e)
	}
	if err := s.RequireFitted("Discretizer", "Predict"); err != nil {
		t.Errorf("RequireFitted() on fitted state = %v", err)
	}

	_ = s.WithStateMut(func() error {
		s.Install(0, 0)
		return nil
	})
	if !s.IsFitted() {
		t.Error("a reinstall keeps the state fitted")
	}
	if n, e := s.GetDimensions(); n != 0 || e != 0 {
		t.Errorf("Install should replace dimensions, got (%d, %d)", n, e)
	}
}

func TestStateManager_ConcurrentReaders(t *testing.T) {
	s := NewStateManager()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%4 == 0 {
				_ = s.WithStateMut(func() error {
					s.Install(i, 0)
					return nil
				})
				return
			}
			_ = s.WithState(func() error { return nil })
			_ = s.IsFitted()
		}(i)
	}
	wg.Wait()

	if !s.IsFitted() {
		t.Error("expected fitted state after concurrent installs")
	}
}

type storedBins struct {
	Splits []float64
	WoE    []float64
	Name   string
}

func TestPersistence_RoundTrip(t *testing.T) {
	in := storedBins{
		Splits: []float64{math.Inf(-1), 6.95, 15.1, math.Inf(1)},
		WoE:    []float64{-0.41, 0.12, 0.88},
		Name:   "fare",
	}

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fare.gob")
		if err := SaveModel(&in, path); err != nil {
			t.Fatalf("SaveModel() error = %v", err)
		}
		var out storedBins
		if err := LoadModel(&out, path); err != nil {
			t.Fatalf("LoadModel() error = %v", err)
		}
		assertSameBins(t, in, out)
	})

	t.Run("stream", func(t *testing.T) {
		var buf bytes.Buffer
		if err := SaveModelToWriter(&in, &buf); err != nil {
			t.Fatalf("SaveModelToWriter() error = %v", err)
		}
		var out storedBins
		if err := LoadModelFromReader(&out, &buf); err != nil {
			t.Fatalf("LoadModelFromReader() error = %v", err)
		}
		assertSameBins(t, in, out)
	})
}

func TestPersistence_Errors(t *testing.T) {
	var out storedBins
	if err := LoadModel(&out, filepath.Join(t.TempDir(), "missing.gob")); err == nil {
		t.Error("LoadModel on a missing file should fail")
	}
	if err := LoadModelFromReader(&out, bytes.NewReader([]byte("not gob"))); err == nil {
		t.Error("LoadModelFromReader on garbage should fail")
	}
}

func assertSameBins(t *testing.T, want, got storedBins) {
	t.Helper()
	if got.Name != want.Name {
		t.Errorf("Name = %q, want %q", got.Name, want.Name)
	}
	if len(got.Splits) != len(want.Splits) {
		t.Fatalf("len(Splits) = %d, want %d", len(got.Splits), len(want.Splits))
	}
	for i := range want.Splits {
		if got.Splits[i] != want.Splits[i] {
			t.Errorf("Splits[%d] = %v, want %v", i, got.Splits[i], want.Splits[i])
		}
	}
	for i := range want.WoE {
		if got.WoE[i] != want.WoE[i] {
			t.Errorf("WoE[%d] = %v, want %v", i, got.WoE[i], want.WoE[i])
		}
	}
}
