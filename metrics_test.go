package sbit

import (
	"errors"
	"testing"
)

func TestMetrics_ZeroValueUnresolved(t *testing.T) {
	var m Metrics
	if m.Resolved() {
		t.Error("zero Metrics should be unresolved")
	}
	if m.Width() != 0 || m.Height() != 0 {
		t.Errorf("unresolved metrics = %dx%d, want 0x0", m.Width(), m.Height())
	}
}

func TestMetrics_Resolve(t *testing.T) {
	var m Metrics
	if err := m.Resolve(32, 48); err != nil {
		t.Fatalf("Resolve(32, 48) error = %v", err)
	}
	if !m.Resolved() {
		t.Error("Resolved() = false after Resolve")
	}
	if m.Width() != 32 || m.Height() != 48 {
		t.Errorf("metrics = %dx%d, want 32x48", m.Width(), m.Height())
	}
}

func TestMetrics_ResolveIsOneWay(t *testing.T) {
	var m Metrics
	if err := m.Resolve(16, 16); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	err := m.Resolve(32, 32)
	if !errors.Is(err, ErrMetricsResolved) {
		t.Errorf("second Resolve() error = %v, want ErrMetricsResolved", err)
	}
	if m.Width() != 16 || m.Height() != 16 {
		t.Errorf("metrics changed to %dx%d after failed Resolve", m.Width(), m.Height())
	}
}

func TestMetrics_ResolveTooLarge(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"width over bound", MaxBitmapDim + 1, 10},
		{"height over bound", 10, MaxBitmapDim + 1},
		{"negative width", -1, 10},
		{"negative height", 10, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Metrics
			err := m.Resolve(tt.width, tt.height)
			if !errors.Is(err, ErrBitmapTooLarge) {
				t.Errorf("Resolve(%d, %d) error = %v, want ErrBitmapTooLarge", tt.width, tt.height, err)
			}
			if m.Resolved() {
				t.Error("metrics resolved after rejected Resolve")
			}
		})
	}
}

func TestMetrics_ResolveAtBound(t *testing.T) {
	var m Metrics
	if err := m.Resolve(MaxBitmapDim, MaxBitmapDim); err != nil {
		t.Fatalf("Resolve(MaxBitmapDim, MaxBitmapDim) error = %v", err)
	}
	if m.Width() != MaxBitmapDim || m.Height() != MaxBitmapDim {
		t.Errorf("metrics = %dx%d, want %dx%d", m.Width(), m.Height(), MaxBitmapDim, MaxBitmapDim)
	}
}

func TestMetrics_Reset(t *testing.T) {
	var m Metrics
	if err := m.Resolve(8, 8); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	m.Reset()
	if m.Resolved() {
		t.Error("Resolved() = true after Reset")
	}
	if err := m.Resolve(4, 4); err != nil {
		t.Errorf("Resolve() after Reset error = %v", err)
	}
}
