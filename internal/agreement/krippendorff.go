package agreement

import "sort"

// DistanceFunc measures disagreement between two category labels. It must be
// symmetric, with distance 0 for identical labels.
type DistanceFunc func(a, b string) float64

// NominalDistance is the standard nominal metric: 0 if equal, 1 otherwise.
func NominalDistance(a, b string) float64 {
	if a == b {
		return 0
	}
	return 1
}

// KrippendorffAlpha computes Krippendorff's alpha over qualifying groups
// using the given distance function.
//
// The computation follows the coincidence-matrix generalization for ragged
// data: within each item, every ordered pair of labels from different
// ratings contributes 1/(m-1) to the matrix, where m is the item's rating
// count, so items with more raters are not overweighted. Observed
// disagreement is the distance-weighted matrix mass; expected disagreement
// is the same weighting applied to the label marginals.
//
// Degenerate cases: groups with fewer than two distinct raters are skipped
// (the grouper filters them, but alpha revalidates since it may be invoked
// directly); fewer than two contributing items yields nil; zero expected
// and observed disagreement (every label identical) yields 1.0; zero
// expected but nonzero observed disagreement is undefined and yields nil.
// The value is unbounded below and reported without clamping.
func KrippendorffAlpha(groups []Group, dist DistanceFunc) *float64 {
	coincidence := map[[2]string]float64{}
	marginals := map[string]float64{}
	labels := map[string]bool{}
	items := 0
	var n float64

	for _, g := range groups {
		if g.distinctRaters() < 2 {
			continue
		}
		vals := g.values()
		m := float64(len(vals))
		if m < 2 {
			continue
		}
		items++
		w := 1 / (m - 1)
		for i, a := range vals {
			labels[a] = true
			marginals[a] += 1 // each rating counts once in the marginals
			for j, b := range vals {
				if i == j {
					continue
				}
				coincidence[[2]string{a, b}] += w
			}
		}
		n += m
	}

	if items < 2 {
		return nil
	}

	ordered := make([]string, 0, len(labels))
	for l := range labels {
		ordered = append(ordered, l)
	}
	sort.Strings(ordered)

	var observed, expected float64
	for _, a := range ordered {
		for _, b := range ordered {
			d := dist(a, b)
			observed += coincidence[[2]string{a, b}] * d
			expected += marginals[a] * marginals[b] * d
		}
	}
	observed /= n
	expected /= n * (n - 1)

	if expected == 0 {
		if observed == 0 {
			one := 1.0
			return &one
		}
		return nil
	}

	alpha := 1 - observed/expected
	return &alpha
}
