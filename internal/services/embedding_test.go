package services

import (
	"math"
	"testing"
)

func TestBatchRangesCoverAllItemsInOrder(t *testing.T) {
	tests := []struct {
		name string
		n    int
		size int
		want [][2]int
	}{
		{"exact multiple", 4, 2, [][2]int{{0, 2}, {2, 4}}},
		{"remainder", 5, 2, [][2]int{{0, 2}, {2, 4}, {4, 5}}},
		{"single batch", 3, 100, [][2]int{{0, 3}}},
		{"size one", 2, 1, [][2]int{{0, 1}, {1, 2}}},
		{"empty", 0, 10, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := batchRanges(tt.n, tt.size)
			if len(got) != len(tt.want) {
				t.Fatalf("batchRanges(%d, %d) = %v, want %v", tt.n, tt.size, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("batchRanges(%d, %d) = %v, want %v", tt.n, tt.size, got, tt.want)
				}
			}
		})
	}
}

func TestCosineSimilarityIdenticalVectors(t *testing.T) {
	v := []float32{0.3, 0.5, 0.8}

	got := CosineSimilarity(v, v)
	if math.Abs(got-1.0) > 1e-6 {
		t.Fatalf("similarity = %v, want ~1.0", got)
	}
}

func TestCosineSimilarityStaysInUnitRange(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
	}{
		{"orthogonal", []float32{1, 0}, []float32{0, 1}},
		{"opposed clamps to zero", []float32{1, 0}, []float32{-1, 0}},
		{"zero vector", []float32{0, 0}, []float32{1, 1}},
		{"mismatched lengths", []float32{1}, []float32{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if got < 0 || got > 1 {
				t.Fatalf("similarity = %v, want within [0,1]", got)
			}
		})
	}
}

func TestCosineSimilarityKnownValue(t *testing.T) {
	// unit vectors at cos(theta) = 0.6
	got := CosineSimilarity([]float32{0.6, 0.8}, []float32{1, 0})
	if math.Abs(got-0.6) > 1e-6 {
		t.Fatalf("similarity = %v, want ~0.6", got)
	}
}
