// Package tilemapping holds letter scores, tile counts, racks and bags.
package tilemapping

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tilefinder/dataloaders"
)

const (
	// NumLetters is the number of distinct non-blank tiles.
	NumLetters = 26
	// BlankToken is the user-visible representation of a blank tile.
	BlankToken = '?'
	// blankIdx is where the blank is kept in score and count tables.
	blankIdx = NumLetters
)

// LetterDistribution encodes the point values and bag counts of every tile.
// The zero value scores every tile at zero and has an empty bag.
type LetterDistribution struct {
	scores [NumLetters + 1]int
	counts [NumLetters + 1]int
	Name   string
}

func tileIdx(letter byte) (int, bool) {
	switch {
	case letter >= 'a' && letter <= 'z':
		return int(letter - 'a'), true
	case letter >= 'A' && letter <= 'Z':
		return int(letter - 'A'), true
	case letter == BlankToken:
		return blankIdx, true
	}
	return 0, false
}

// ScanLetterDistribution reads lines of `<letter> <points> <count>`. Lines
// that can't be parsed are skipped and make the result Malformed; the
// distribution read so far is still returned.
func ScanLetterDistribution(r io.Reader) (*LetterDistribution, dataloaders.LoadResult) {
	ld := &LetterDistribution{}
	res := dataloaders.Loaded
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 || len(fields[0]) != 1 {
			log.Warn().Int("line", lineNum).Str("text", line).Msg("bad-letter-score-line")
			res = dataloaders.Malformed
			continue
		}
		idx, ok := tileIdx(fields[0][0])
		pts, perr := strconv.Atoi(fields[1])
		cnt, cerr := strconv.Atoi(fields[2])
		if !ok || perr != nil || cerr != nil || pts < 0 || cnt < 0 {
			log.Warn().Int("line", lineNum).Str("text", line).Msg("bad-letter-score-line")
			res = dataloaders.Malformed
			continue
		}
		ld.scores[idx] = pts
		ld.counts[idx] = cnt
	}
	if err := scanner.Err(); err != nil {
		log.Warn().Err(err).Msg("letter-scores-read-error")
		res = dataloaders.Malformed
	}
	return ld, res
}

// LoadLetterDistribution loads a letter-scores file, falling back to an
// all-zero distribution if the file is missing.
func LoadLetterDistribution(path string) (*LetterDistribution, dataloaders.LoadResult) {
	ld := &LetterDistribution{}
	res := dataloaders.LoadFile(path, func(r io.Reader) dataloaders.LoadResult {
		var lres dataloaders.LoadResult
		ld, lres = ScanLetterDistribution(r)
		return lres
	})
	ld.Name = path
	return ld, res
}

// Score gives the point value of a letter. Upper-case letters are the same
// letter; the blank token scores whatever the blank was given (normally 0).
func (ld *LetterDistribution) Score(letter byte) int {
	idx, ok := tileIdx(letter)
	if !ok {
		return 0
	}
	return ld.scores[idx]
}

// Count returns how many of letter are in a full bag.
func (ld *LetterDistribution) Count(letter byte) int {
	idx, ok := tileIdx(letter)
	if !ok {
		return 0
	}
	return ld.counts[idx]
}

// WordScore is the face value of word, without any bonuses.
func (ld *LetterDistribution) WordScore(word string) int {
	score := 0
	for i := 0; i < len(word); i++ {
		score += ld.Score(word[i])
	}
	return score
}

// NumTotalTiles is the size of a full bag.
func (ld *LetterDistribution) NumTotalTiles() int {
	n := 0
	for _, c := range ld.counts {
		n += c
	}
	return n
}

// Unseen returns the tiles of a full bag minus the seen ones, in letter
// order with blanks last. Seen blanks are given as BlankToken.
func (ld *LetterDistribution) Unseen(seen []byte) []byte {
	counts := ld.counts
	for _, s := range seen {
		if idx, ok := tileIdx(s); ok && counts[idx] > 0 {
			counts[idx]--
		}
	}
	var out []byte
	for i := 0; i < NumLetters; i++ {
		for j := 0; j < counts[i]; j++ {
			out = append(out, byte('a'+i))
		}
	}
	for j := 0; j < counts[blankIdx]; j++ {
		out = append(out, BlankToken)
	}
	return out
}

const englishDistribution = `a 1 9
b 3 2
c 3 2
d 2 4
e 1 12
f 4 2
g 2 3
h 4 2
i 1 9
j 8 1
k 5 1
l 1 4
m 3 2
n 1 6
o 1 8
p 3 2
q 10 1
r 1 6
s 1 4
t 1 6
u 1 4
v 4 2
w 4 2
x 8 1
y 4 2
z 10 1
? 0 2
`

// EnglishLetterDistribution returns the standard English tile set.
func EnglishLetterDistribution() *LetterDistribution {
	ld, _ := ScanLetterDistribution(strings.NewReader(englishDistribution))
	ld.Name = "english"
	return ld
}
