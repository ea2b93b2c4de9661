package t2048

// HasEmptyCell returns true if there's at least one empty cell.
func HasEmptyCell(board Board) bool {
	for y := range BoardSize {
		for x := range BoardSize {
			if board[y][x] == 0 {
				return true
			}
		}
	}
	return false
}

// HasPossibleMerge returns true if any horizontally or vertically adjacent
// tiles hold the same value.
func HasPossibleMerge(board Board) bool {
	for y := range BoardSize {
		for x := range BoardSize {
			val := board[y][x]
			if val == 0 {
				continue
			}
			if x < BoardSize-1 && board[y][x+1] == val {
				return true
			}
			if y < BoardSize-1 && board[y+1][x] == val {
				return true
			}
		}
	}
	return false
}

// CanMove returns true if any move is possible.
func CanMove(board Board) bool {
	return HasEmptyCell(board) || HasPossibleMerge(board)
}

// IsGameOver returns true if no moves are possible.
func IsGameOver(board Board) bool {
	return !CanMove(board)
}
