package board

import (
	"fmt"
	"strings"
)

// ToDisplayText renders the board with column letters, row numbers,
// power-up glyphs, and blank tiles in uppercase.
func (b *Board) ToDisplayText() string {
	var str strings.Builder
	n := b.Dim()
	row := "   "
	for i := 0; i < n; i++ {
		row = row + fmt.Sprintf("%c", 'A'+i) + " "
	}
	str.WriteString(row + "\n")
	str.WriteString("   " + strings.Repeat("-", n*2) + "\n")
	for i := 0; i < n; i++ {
		row := fmt.Sprintf("%2d|", i+1)
		for j := 0; j < n; j++ {
			row = row + b.sq(Coord{i, j}).DisplayString() + " "
		}
		row = row + "|"
		str.WriteString(row + "\n")
	}
	str.WriteString("   " + strings.Repeat("-", n*2) + "\n")
	return "\n" + str.String()
}
