package dedup_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/pddkit/dedup"
	"github.com/katalvlaran/pddkit/lattice"
	"github.com/katalvlaran/pddkit/pdd"
)

func benchFingerprints(b *testing.B, n int) []pdd.PDD {
	b.Helper()
	cfgs := make([]lattice.Configuration, n)
	for i := range cfgs {
		cfgs[i] = fcc(3.5 + 0.01*float64(i))
	}
	fps, err := pdd.ComputeAll(context.Background(), cfgs, 12, pdd.WithWorkers(4))
	if err != nil {
		b.Fatal(err)
	}
	return fps
}

// BenchmarkFilterFingerprints_NoDuplicates is the O(n²) worst case.
func BenchmarkFilterFingerprints_NoDuplicates(b *testing.B) {
	fps := benchFingerprints(b, 40)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := dedup.FilterFingerprints(ctx, fps, 0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFilterFingerprints_Workers4(b *testing.B) {
	fps := benchFingerprints(b, 40)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := dedup.FilterFingerprints(ctx, fps, 0, dedup.WithWorkers(4)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPairwiseLinkage(b *testing.B) {
	fps := benchFingerprints(b, 40)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d, err := dedup.Pairwise(ctx, fps, dedup.WithWorkers(4))
		if err != nil {
			b.Fatal(err)
		}
		if _, err = dedup.Linkage(d); err != nil {
			b.Fatal(err)
		}
	}
}
