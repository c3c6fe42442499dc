// Package wordcode contains a fixed-width encoding of a word. The encoding
// makes it cheap to ask whether a word contains some set of letters, how many
// of each it holds, and which slots they occupy.
package wordcode

import (
	"encoding/binary"
	"math/bits"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	// MaxLength is the longest word that can be encoded.
	MaxLength = 15
	// NumLetters is the size of the alphabet (a-z).
	NumLetters = 26
	// RecordSize is the size of a serialized WordCode:
	// 4 bytes key, 1 byte length, 26 x 2 bytes positions, 26 x 1 byte counts.
	RecordSize = 4 + 1 + NumLetters*2 + NumLetters
	// BlankRune is the "any letter" placeholder in query words.
	BlankRune = '?'

	positionsOffset = 5
	countsOffset    = positionsOffset + NumLetters*2
)

// A PositionMask holds, per letter, a bitmask of slots where that letter
// must appear.
type PositionMask [NumLetters]uint16

// Set requires letter to appear at slot.
func (m *PositionMask) Set(slot int, letter byte) {
	if letter < 'a' || letter > 'z' || slot < 0 || slot >= MaxLength {
		return
	}
	m[letter-'a'] |= 1 << slot
}

// MaskFor builds a mask from slot -> letter requirements.
func MaskFor(letters map[int]byte) PositionMask {
	var m PositionMask
	for slot, letter := range letters {
		m.Set(slot, letter)
	}
	return m
}

// Empty returns true if the mask has no requirements.
func (m *PositionMask) Empty() bool {
	for _, v := range m {
		if v != 0 {
			return false
		}
	}
	return true
}

// WordCode is the encoded form of a word. It is immutable after
// construction.
type WordCode struct {
	key             uint32
	length          uint8
	letterPositions [NumLetters]uint16
	letterCounts    [NumLetters]uint8
	blankPositions  uint16
	blankCount      uint8
	invalid         bool
}

// Encode builds a WordCode from a literal word. Words that are too long are
// truncated, and words with characters outside a-z (and the blank
// placeholder) are kept but flagged as invalid.
func Encode(word string) WordCode {
	wc := WordCode{}
	if len(word) > MaxLength {
		word = word[:MaxLength]
		wc.invalid = true
	}
	for i := 0; i < len(word); i++ {
		c := word[i]
		switch {
		case c >= 'a' && c <= 'z':
			idx := c - 'a'
			wc.key |= 1 << idx
			wc.letterPositions[idx] |= 1 << i
			wc.letterCounts[idx]++
		case c == BlankRune:
			wc.blankPositions |= 1 << i
			wc.blankCount++
		default:
			wc.invalid = true
		}
	}
	wc.length = uint8(len(word))
	return wc
}

// Decode builds a WordCode from a serialized record. Records of the wrong
// size produce an invalid code.
func Decode(b []byte) WordCode {
	wc := WordCode{}
	if len(b) != RecordSize {
		wc.invalid = true
		return wc
	}
	wc.key = binary.LittleEndian.Uint32(b[0:4])
	wc.length = b[4]
	for i := 0; i < NumLetters; i++ {
		wc.letterPositions[i] = binary.LittleEndian.Uint16(b[positionsOffset+i*2:])
		wc.letterCounts[i] = b[countsOffset+i]
	}
	if wc.length == 0 || wc.length > MaxLength || !wc.consistent() {
		wc.invalid = true
	}
	return wc
}

// consistent checks the length invariants of a decoded record.
func (wc WordCode) consistent() bool {
	var union uint16
	total := int(wc.blankCount)
	for i := 0; i < NumLetters; i++ {
		union |= wc.letterPositions[i]
		total += int(wc.letterCounts[i])
	}
	union |= wc.blankPositions
	return bits.OnesCount16(union) == int(wc.length) && total == int(wc.length)
}

// AppendBytes appends the serialized record for this code to b.
func (wc WordCode) AppendBytes(b []byte) []byte {
	if wc.invalid {
		log.Warn().Str("word", wc.String()).Msg("serializing-invalid-wordcode")
	}
	b = binary.LittleEndian.AppendUint32(b, wc.key)
	b = append(b, wc.length)
	for i := 0; i < NumLetters; i++ {
		b = binary.LittleEndian.AppendUint16(b, wc.letterPositions[i])
	}
	return append(b, wc.letterCounts[:]...)
}

// Bytes returns the serialized record for this code.
func (wc WordCode) Bytes() []byte {
	return wc.AppendBytes(make([]byte, 0, RecordSize))
}

func (wc WordCode) String() string {
	var sb strings.Builder
	sb.Grow(int(wc.length))
	for slot := 0; slot < int(wc.length); slot++ {
		sb.WriteByte(wc.letterAt(slot))
	}
	return sb.String()
}

// letterAt returns the letter at a slot, the blank placeholder, or a space
// for an unoccupied slot.
func (wc WordCode) letterAt(slot int) byte {
	bit := uint16(1) << slot
	if wc.blankPositions&bit != 0 {
		return BlankRune
	}
	for i := 0; i < NumLetters; i++ {
		if wc.letterPositions[i]&bit != 0 {
			return byte('a' + i)
		}
	}
	return ' '
}

func (wc WordCode) Key() uint32 {
	return wc.key
}

func (wc WordCode) Len() int {
	return int(wc.length)
}

func (wc WordCode) Valid() bool {
	return !wc.invalid
}

func (wc WordCode) BlankCount() int {
	return int(wc.blankCount)
}

// HasBlanks returns true if this is a query word with "any letter" slots.
func (wc WordCode) HasBlanks() bool {
	return wc.blankCount > 0
}

// Sortable returns false for codes that cannot take part in key ordering.
func (wc WordCode) Sortable() bool {
	return wc.blankCount == 0
}

// Count returns how many times letter occurs.
func (wc WordCode) Count(letter byte) int {
	if letter < 'a' || letter > 'z' {
		return 0
	}
	return int(wc.letterCounts[letter-'a'])
}

// Positions returns the slot bitmask of letter.
func (wc WordCode) Positions(letter byte) uint16 {
	if letter < 'a' || letter > 'z' {
		return 0
	}
	return wc.letterPositions[letter-'a']
}

// MatchesAmounts returns true if the dictionary word candidate can be made
// out of the letters of wc, using wc's blanks to cover any letters that wc
// lacks. Blanks are consumed greedily from 'a' to 'z'.
func (wc WordCode) MatchesAmounts(candidate WordCode) bool {
	if candidate.length != wc.length {
		return false
	}
	budget := int(wc.blankCount)
	for i := 0; i < NumLetters; i++ {
		have := int(wc.letterCounts[i])
		need := int(candidate.letterCounts[i])
		if need < have {
			return false
		}
		if need > have {
			short := need - have
			if short > budget {
				return false
			}
			budget -= short
		}
	}
	return true
}

// MatchesPositionalMask returns true if, for every letter in the mask, this
// word has that letter in at least the masked slots.
func (wc WordCode) MatchesPositionalMask(mask *PositionMask) bool {
	if mask == nil {
		return true
	}
	for i, m := range mask {
		if m != 0 && wc.letterPositions[i]&m != m {
			return false
		}
	}
	return true
}

// MatchesPattern returns true if this word has the same length as pattern
// and the same letter in every non-blank slot of the pattern.
func (wc WordCode) MatchesPattern(pattern WordCode) bool {
	if wc.length != pattern.length {
		return false
	}
	if wc.key&pattern.key != pattern.key {
		return false
	}
	for i := 0; i < NumLetters; i++ {
		if wc.letterPositions[i]&pattern.letterPositions[i] != pattern.letterPositions[i] {
			return false
		}
	}
	return true
}

// Compare orders codes by key only. Letter multiplicity is ignored on
// purpose; equal keys group words made of the same set of letters.
func Compare(a, b WordCode) int {
	switch {
	case a.key < b.key:
		return -1
	case a.key > b.key:
		return 1
	}
	return 0
}
