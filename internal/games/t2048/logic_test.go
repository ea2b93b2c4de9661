package t2048

import (
	"math/rand"
	"testing"
)

func TestSlideRowMerge(t *testing.T) {
	tests := []struct {
		name     string
		input    [4]int
		expected [4]int
		score    int
	}{
		{
			name:     "simple merge",
			input:    [4]int{2, 2, 0, 0},
			expected: [4]int{4, 0, 0, 0},
			score:    4,
		},
		{
			name:     "merge with trailing tile",
			input:    [4]int{2, 2, 2, 0},
			expected: [4]int{4, 2, 0, 0},
			score:    4,
		},
		{
			name:     "double merge",
			input:    [4]int{2, 2, 2, 2},
			expected: [4]int{4, 4, 0, 0},
			score:    8,
		},
		{
			name:     "one merge per tile",
			input:    [4]int{4, 4, 4, 4},
			expected: [4]int{8, 8, 0, 0},
			score:    16,
		},
		{
			name:     "merged tile does not merge again",
			input:    [4]int{2, 2, 4, 0},
			expected: [4]int{4, 4, 0, 0},
			score:    4,
		},
		{
			name:     "no merge possible",
			input:    [4]int{2, 4, 8, 16},
			expected: [4]int{2, 4, 8, 16},
			score:    0,
		},
		{
			name:     "slide with gap",
			input:    [4]int{0, 0, 2, 2},
			expected: [4]int{4, 0, 0, 0},
			score:    4,
		},
		{
			name:     "slide with multiple gaps",
			input:    [4]int{2, 0, 0, 2},
			expected: [4]int{4, 0, 0, 0},
			score:    4,
		},
		{
			name:     "no change needed",
			input:    [4]int{4, 2, 0, 0},
			expected: [4]int{4, 2, 0, 0},
			score:    0,
		},
		{
			name:     "empty row",
			input:    [4]int{0, 0, 0, 0},
			expected: [4]int{0, 0, 0, 0},
			score:    0,
		},
		{
			name:     "single tile",
			input:    [4]int{0, 4, 0, 0},
			expected: [4]int{4, 0, 0, 0},
			score:    0,
		},
		{
			name:     "large tiles",
			input:    [4]int{1024, 1024, 0, 2048},
			expected: [4]int{2048, 2048, 0, 0},
			score:    2048,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, score := slideRow(tt.input)
			if result != tt.expected {
				t.Errorf("slideRow(%v) = %v, want %v", tt.input, result, tt.expected)
			}
			if score != tt.score {
				t.Errorf("slideRow(%v) score = %d, want %d", tt.input, score, tt.score)
			}
		})
	}
}

func TestCompressRowPreservesOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		row := randomRow(rng)
		out := compressRow(row)

		var want []int
		for _, v := range row {
			if v != 0 {
				want = append(want, v)
			}
		}

		for j := range BoardSize {
			if j < len(want) {
				if out[j] != want[j] {
					t.Fatalf("compressRow(%v) = %v, want prefix %v", row, out, want)
				}
			} else if out[j] != 0 {
				t.Fatalf("compressRow(%v) = %v, want zero tail after %d tiles", row, out, len(want))
			}
		}
	}
}

func TestSlideLeft(t *testing.T) {
	board := Board{
		{2, 2, 0, 0},
		{4, 0, 4, 0},
		{2, 2, 2, 2},
		{0, 0, 0, 2},
	}

	expected := Board{
		{4, 0, 0, 0},
		{8, 0, 0, 0},
		{4, 4, 0, 0},
		{2, 0, 0, 0},
	}

	result, score, changed := SlideLeft(board)

	if result != expected {
		t.Errorf("SlideLeft: got\n%v\nwant\n%v", result, expected)
	}
	if !changed {
		t.Error("SlideLeft should indicate board changed")
	}
	if score != 20 {
		t.Errorf("SlideLeft score = %d, want 20", score)
	}
}

func TestSlideRight(t *testing.T) {
	board := Board{
		{2, 2, 0, 0},
		{4, 0, 4, 0},
		{2, 2, 2, 2},
		{0, 0, 0, 2},
	}

	expected := Board{
		{0, 0, 0, 4},
		{0, 0, 0, 8},
		{0, 0, 4, 4},
		{0, 0, 0, 2},
	}

	result, score, changed := SlideRight(board)

	if result != expected {
		t.Errorf("SlideRight: got\n%v\nwant\n%v", result, expected)
	}
	if !changed {
		t.Error("SlideRight should indicate board changed")
	}
	if score != 20 {
		t.Errorf("SlideRight score = %d, want 20", score)
	}
}

func TestSlideUp(t *testing.T) {
	board := Board{
		{2, 4, 2, 0},
		{2, 0, 2, 0},
		{0, 4, 2, 0},
		{0, 0, 2, 2},
	}

	expected := Board{
		{4, 8, 4, 2},
		{0, 0, 4, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	result, _, changed := SlideUp(board)

	if result != expected {
		t.Errorf("SlideUp: got\n%v\nwant\n%v", result, expected)
	}
	if !changed {
		t.Error("SlideUp should indicate board changed")
	}
}

func TestSlideDown(t *testing.T) {
	board := Board{
		{2, 4, 2, 2},
		{2, 0, 2, 0},
		{0, 4, 2, 0},
		{0, 0, 2, 0},
	}

	expected := Board{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 4, 0},
		{4, 8, 4, 2},
	}

	result, _, changed := SlideDown(board)

	if result != expected {
		t.Errorf("SlideDown: got\n%v\nwant\n%v", result, expected)
	}
	if !changed {
		t.Error("SlideDown should indicate board changed")
	}
}

func TestSlideDownMergesTowardBottom(t *testing.T) {
	board := Board{
		{2, 0, 0, 0},
		{2, 0, 0, 0},
		{2, 0, 0, 0},
		{0, 0, 0, 0},
	}

	result, score, _ := SlideDown(board)

	if result[3][0] != 4 || result[2][0] != 2 || result[1][0] != 0 {
		t.Errorf("SlideDown column 0 = %v, want bottom pair merged first", Transpose(result)[0])
	}
	if score != 4 {
		t.Errorf("SlideDown score = %d, want 4", score)
	}
}

func TestDirectionConsistency(t *testing.T) {
	board := Board{
		{0, 2, 2, 0},
	}

	tests := []struct {
		dir   Direction
		want  Board
		score int
	}{
		{DirLeft, Board{{4, 0, 0, 0}}, 4},
		{DirRight, Board{{0, 0, 0, 4}}, 4},
		{DirUp, Board{{0, 2, 2, 0}}, 0},
		{DirDown, Board{{}, {}, {}, {0, 2, 2, 0}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			got, score, changed := Slide(board, tt.dir)
			if got != tt.want {
				t.Errorf("Slide(%s): got\n%v\nwant\n%v", tt.dir, got, tt.want)
			}
			if score != tt.score {
				t.Errorf("Slide(%s) score = %d, want %d", tt.dir, score, tt.score)
			}
			if changed != (got != board) {
				t.Errorf("Slide(%s) changed = %v, want %v", tt.dir, changed, got != board)
			}
		})
	}
}

func TestNoChangeNoSpawn(t *testing.T) {
	board := Board{
		{4, 2, 0, 0},
		{8, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	result, score, changed := SlideLeft(board)

	if changed {
		t.Error("SlideLeft should not change already left-aligned tiles")
	}
	if result != board {
		t.Errorf("SlideLeft returned a different board:\n%v", result)
	}
	if score != 0 {
		t.Errorf("SlideLeft score = %d, want 0", score)
	}
}

func TestSlideUnknownDirection(t *testing.T) {
	board := Board{{2, 2, 0, 0}}

	got, score, changed := Slide(board, Direction(42))
	if got != board || score != 0 || changed {
		t.Errorf("Slide(unknown) = (%v, %d, %v), want board untouched", got, score, changed)
	}
}

// A second slide never has gaps to close; it can only merge pairs the first
// slide produced, and only if the first slide merged something.
func TestSlideTwice(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for i := 0; i < 500; i++ {
		board := randomBoard(rng)
		for _, dir := range Directions {
			once, gained, _ := Slide(board, dir)
			twice, score, changed := Slide(once, dir)

			if gained == 0 && (changed || score != 0) {
				t.Fatalf("second %s slide after a merge-free slide changed board\n%v->\n%v->\n%v", dir, board, once, twice)
			}
			if changed && score == 0 {
				t.Fatalf("second %s slide moved tiles without merging\n%v->\n%v", dir, once, twice)
			}
		}
	}
}

func TestSlideLeftLeavesRowsCompressed(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		out, _, _ := SlideLeft(randomBoard(rng))
		for y, row := range out {
			if compressRow(row) != row {
				t.Fatalf("row %d not compressed after SlideLeft: %v", y, row)
			}
		}
	}
}

func TestSlideLeftCascade(t *testing.T) {
	board := Board{{16, 8, 8, 0}}

	once, gained, _ := SlideLeft(board)
	if once[0] != [BoardSize]int{16, 16, 0, 0} || gained != 16 {
		t.Fatalf("first slide = %v (+%d), want [16 16 0 0] (+16)", once[0], gained)
	}

	twice, gained, changed := SlideLeft(once)
	if !changed || twice[0] != [BoardSize]int{32, 0, 0, 0} || gained != 32 {
		t.Errorf("second slide = %v (+%d, changed %v), want [32 0 0 0] (+32)", twice[0], gained, changed)
	}
}

func TestSlideConservesTileSum(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 500; i++ {
		board := randomBoard(rng)
		for _, dir := range Directions {
			out, score, _ := Slide(board, dir)
			if tileSum(out) != tileSum(board) {
				t.Fatalf("%s slide changed tile sum %d -> %d", dir, tileSum(board), tileSum(out))
			}
			merges := TileCount(board) - TileCount(out)
			if merges == 0 && score != 0 {
				t.Fatalf("%s slide scored %d without merging", dir, score)
			}
			if merges > 0 && score == 0 {
				t.Fatalf("%s slide merged %d tiles without scoring", dir, merges)
			}
		}
	}
}

func randomRow(rng *rand.Rand) [BoardSize]int {
	var row [BoardSize]int
	for i := range row {
		if rng.Intn(3) > 0 {
			row[i] = 2 << rng.Intn(4)
		}
	}
	return row
}

func randomBoard(rng *rand.Rand) Board {
	var b Board
	for y := range BoardSize {
		b[y] = randomRow(rng)
	}
	return b
}

func tileSum(b Board) int {
	sum := 0
	for y := range BoardSize {
		for x := range BoardSize {
			sum += b[y][x]
		}
	}
	return sum
}
