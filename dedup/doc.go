// Package dedup removes near-duplicate periodic configurations from a
// dataset, comparing their PDD fingerprints under the Earth Mover's Distance.
//
// Filter fingerprints every configuration once, then walks the set in index
// order. A configuration that has not been removed yet is compared with
// every later surviving one, and each later configuration within tol of it
// is removed:
//
//	for i := 0; i < n; i++ {
//	    if removed(i) { continue }
//	    for j := i+1; j < n; j++ {
//	        if !removed(j) && EMD(PDD_i, PDD_j) <= tol { remove(j) }
//	    }
//	}
//
// The lowest index of every near-duplicate group survives and the output
// keeps the original relative order. This greedy policy is order dependent
// and is not a clustering optimum. Re-filtering a filtered set with the same
// tol and k removes nothing.
//
// The distances of one row (fixed i) are independent and run on
// Options.Workers goroutines; removals are then applied in ascending j, so
// the result never depends on the number of workers. The removed set is a
// roaring bitmap.
//
// Pairwise, Linkage and Cut expose the full distance matrix and its
// single-linkage hierarchy for reporting. They never influence Filter.
//
// # Errors
//
//	ErrNegativeTolerance - tol < 0 or NaN.
//	ErrEmptyInput        - Pairwise on zero fingerprints.
//	ErrNotSquare         - Linkage on a non-square matrix.
//	ErrAsymmetric        - Linkage on a matrix that is not a dissimilarity.
//
// Fingerprint and distance failures (pdd.ErrNotConverged, emd.ErrShapeMismatch,
// emd.ErrNumerical, ...) are wrapped with the failing index or pair. No
// partial result is ever returned.
package dedup
