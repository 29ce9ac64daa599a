package market

import "slices"

// AvailableYears returns the distinct years of ds in ascending order.
func AvailableYears(ds Dataset) []int {
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, r := range ds {
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		years = append(years, r.Year)
	}

	slices.Sort(years)
	return years
}

// FilterByYear keeps the records of the given year in their original order.
func FilterByYear(ds Dataset, year int) Dataset {
	res := make(Dataset, 0)
	for _, r := range ds {
		if r.Year == year {
			res = append(res, r)
		}
	}

	return res
}

// LatestYear is the default selection for a dataset.
func LatestYear(ds Dataset) (int, bool) {
	years := AvailableYears(ds)
	if len(years) == 0 {
		return 0, false
	}

	return years[len(years)-1], true
}
