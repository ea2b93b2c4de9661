package t2048

// compressRow shifts non-zero tiles toward index 0, keeping their order.
func compressRow(row [BoardSize]int) [BoardSize]int {
	var out [BoardSize]int
	pos := 0
	for _, v := range row {
		if v != 0 {
			out[pos] = v
			pos++
		}
	}
	return out
}

// mergeRow combines equal neighbours of a compressed row, scanning left to right.
// The left cell of a pair takes the doubled value and the right cell is zeroed,
// so a freshly merged tile cannot merge again in the same pass.
// Returns the row (with gaps) and the sum of the merged values.
func mergeRow(row [BoardSize]int) ([BoardSize]int, int) {
	score := 0
	for i := 0; i < BoardSize-1; i++ {
		if row[i] == 0 || row[i] != row[i+1] {
			continue
		}
		row[i] *= 2
		row[i+1] = 0
		score += row[i]
	}
	return row, score
}

// slideRow runs compress, merge, compress on one row.
func slideRow(row [BoardSize]int) ([BoardSize]int, int) {
	merged, score := mergeRow(compressRow(row))
	return compressRow(merged), score
}

// SlideLeft slides all tiles left and merges.
// Returns the new board, score gained, and whether any cell changed.
func SlideLeft(board Board) (Board, int, bool) {
	var out Board
	total := 0
	for y := range BoardSize {
		row, score := slideRow(board[y])
		out[y] = row
		total += score
	}
	return out, total, out != board
}

// SlideRight slides all tiles right and merges.
func SlideRight(board Board) (Board, int, bool) {
	slid, score, _ := SlideLeft(Mirror(board))
	out := Mirror(slid)
	return out, score, out != board
}

// SlideUp slides all tiles up and merges.
func SlideUp(board Board) (Board, int, bool) {
	slid, score, _ := SlideLeft(Transpose(board))
	out := Transpose(slid)
	return out, score, out != board
}

// SlideDown slides all tiles down and merges.
func SlideDown(board Board) (Board, int, bool) {
	slid, score, _ := SlideLeft(Mirror(Transpose(board)))
	out := Transpose(Mirror(slid))
	return out, score, out != board
}

// Slide performs a move in the given direction.
// Returns the new board, score gained, and whether the board changed.
// An unknown direction leaves the board untouched.
func Slide(board Board, dir Direction) (Board, int, bool) {
	switch dir {
	case DirLeft:
		return SlideLeft(board)
	case DirRight:
		return SlideRight(board)
	case DirUp:
		return SlideUp(board)
	case DirDown:
		return SlideDown(board)
	default:
		return board, 0, false
	}
}
