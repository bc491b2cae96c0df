package listview

// pageWindow bounds how many page buttons a caller renders.
const pageWindow = 5

// VisiblePages returns the page numbers to render for a pager: a
// window of at most five pages centered on the current one, shifted
// inward near the first and last pages.
func VisiblePages(current, total int) []int {
	if total < 1 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}
	if total <= pageWindow {
		out := make([]int, total)
		for i := range out {
			out[i] = i + 1
		}
		return out
	}
	start := current - pageWindow/2
	if start < 1 {
		start = 1
	}
	if start > total-pageWindow+1 {
		start = total - pageWindow + 1
	}
	out := make([]int, pageWindow)
	for i := range out {
		out[i] = start + i
	}
	return out
}
