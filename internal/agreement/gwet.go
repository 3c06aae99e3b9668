package agreement

import "sort"

// GwetAC1 computes Gwet's first-order agreement coefficient over qualifying
// groups.
//
// Observed agreement comes from a contingency table over every unordered
// rater pair within every item. Chance agreement uses Gwet's correction: for
// each category, its average within-item proportion pi_q enters as
// pi_q*(1-pi_q)/(k-1), which stays stable under the prevalence skew that
// makes Cohen-style corrections degenerate when one label dominates.
//
// Groups with fewer than two distinct raters are skipped here as well as in
// the grouper; the calculator may be handed unfiltered data directly. An
// empty contingency table yields nil. If every pair agrees and chance
// agreement is exactly 1 (a single observed category), the coefficient is
// 1.0 by the perfect-agreement convention.
func GwetAC1(groups []Group) *float64 {
	// pairCounts[{a,b}] counts label co-occurrences over unordered rater
	// pairs, with a <= b so each pair lands in one cell.
	pairCounts := map[[2]string]float64{}
	catProportionSums := map[string]float64{}
	categories := map[string]bool{}
	items := 0
	var totalPairs float64

	for _, g := range groups {
		if g.distinctRaters() < 2 {
			continue
		}
		vals := g.values()
		m := len(vals)
		if m < 2 {
			continue
		}
		items++

		perItem := map[string]float64{}
		for _, v := range vals {
			perItem[v]++
			categories[v] = true
		}
		for c, count := range perItem {
			catProportionSums[c] += count / float64(m)
		}

		for i := 0; i < m; i++ {
			for j := i + 1; j < m; j++ {
				a, b := vals[i], vals[j]
				if a > b {
					a, b = b, a
				}
				pairCounts[[2]string{a, b}]++
				totalPairs++
			}
		}
	}

	if totalPairs == 0 {
		return nil
	}

	ordered := make([]string, 0, len(categories))
	for c := range categories {
		ordered = append(ordered, c)
	}
	sort.Strings(ordered)

	var agreeing float64
	for _, c := range ordered {
		agreeing += pairCounts[[2]string{c, c}]
	}
	pa := agreeing / totalPairs

	// Chance agreement from the mean within-item category proportions.
	k := len(ordered)
	var pe float64
	if k > 1 {
		for _, c := range ordered {
			pi := catProportionSums[c] / float64(items)
			pe += pi * (1 - pi)
		}
		pe /= float64(k - 1)
	}

	if pe >= 1 {
		if pa == 1 {
			one := 1.0
			return &one
		}
		return nil
	}

	ac1 := (pa - pe) / (1 - pe)
	return &ac1
}
