package listview

import "testing"

func TestVisiblePages(t *testing.T) {
	cases := []struct {
		name    string
		current int
		total   int
		want    []int
	}{
		{"few pages", 1, 3, []int{1, 2, 3}},
		{"exactly window", 4, 5, []int{1, 2, 3, 4, 5}},
		{"centered", 10, 20, []int{8, 9, 10, 11, 12}},
		{"clamped at start", 1, 20, []int{1, 2, 3, 4, 5}},
		{"near start", 2, 20, []int{1, 2, 3, 4, 5}},
		{"clamped at end", 20, 20, []int{16, 17, 18, 19, 20}},
		{"near end", 19, 20, []int{16, 17, 18, 19, 20}},
		{"current beyond total", 25, 20, []int{16, 17, 18, 19, 20}},
		{"current below one", 0, 20, []int{1, 2, 3, 4, 5}},
		{"single page", 1, 1, []int{1}},
	}

	for _, tc := range cases {
		got := VisiblePages(tc.current, tc.total)
		if !equalInts(got, tc.want) {
			t.Fatalf("%s: VisiblePages(%d, %d) = %v, want %v", tc.name, tc.current, tc.total, got, tc.want)
		}
	}
}

func TestVisiblePagesNoPages(t *testing.T) {
	if got := VisiblePages(1, 0); got != nil {
		t.Fatalf("expected nil for zero pages, got %v", got)
	}
}
