package pagination

// Ellipsis marks a compressed gap in a page-button row.
const Ellipsis = -1

// PageButtons builds the page-number row for a listing: every page when
// there are at most five, otherwise the first and last page plus a window
// of current±1, widened to the first or last three pages near the
// boundaries, with Ellipsis wherever pages were skipped.
func PageButtons(current, total int) []int {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	if total <= 5 {
		pages := make([]int, 0, total)
		for n := 1; n <= total; n++ {
			pages = append(pages, n)
		}
		return pages
	}

	show := func(n int) bool {
		if n == 1 || n == total {
			return true
		}
		if n >= current-1 && n <= current+1 {
			return true
		}
		if current <= 3 && n <= 3 {
			return true
		}
		if current >= total-2 && n >= total-2 {
			return true
		}
		return false
	}

	var pages []int
	prev := 0
	for n := 1; n <= total; n++ {
		if !show(n) {
			continue
		}
		if prev != 0 && n-prev > 1 {
			pages = append(pages, Ellipsis)
		}
		pages = append(pages, n)
		prev = n
	}
	return pages
}
