package pagination

import "testing"

func TestPaginate(t *testing.T) {
	cases := []struct {
		name                string
		total, page, size   int
		wantPage, wantPages int
		wantStart, wantEnd  int
	}{
		{"empty", 0, 1, 10, 1, 1, 0, 0},
		{"first page", 25, 1, 10, 1, 3, 0, 10},
		{"last partial", 25, 3, 10, 3, 3, 20, 25},
		{"beyond range clamps", 25, 9, 10, 3, 3, 20, 25},
		{"below range clamps", 25, 0, 10, 1, 3, 0, 10},
		{"exact multiple", 20, 2, 10, 2, 2, 10, 20},
		{"default size", 11, 2, 0, 2, 2, 10, 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := Paginate(tc.total, tc.page, tc.size)
			if w.Page != tc.wantPage || w.TotalPages != tc.wantPages || w.Start != tc.wantStart || w.End != tc.wantEnd {
				t.Fatalf("unexpected window %+v", w)
			}
		})
	}
}
