package core

import "testing"

func TestRectEdges(t *testing.T) {
	r := Rect{X: 5, Y: 10, W: 20, H: 15}

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestCenteredRect(t *testing.T) {
	tests := []struct {
		name   string
		cx, cy int
		w, h   int
		want   Rect
	}{
		{"even size", 10, 10, 4, 2, Rect{X: 8, Y: 9, W: 4, H: 2}},
		{"odd size", 10, 10, 5, 3, Rect{X: 8, Y: 9, W: 5, H: 3}},
		{"at origin", 0, 0, 2, 2, Rect{X: -1, Y: -1, W: 2, H: 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CenteredRect(tc.cx, tc.cy, tc.w, tc.h)
			if got != tc.want {
				t.Errorf("CenteredRect(%d, %d, %d, %d) = %+v, expected %+v", tc.cx, tc.cy, tc.w, tc.h, got, tc.want)
			}
		})
	}
}
