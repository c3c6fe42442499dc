package board

import (
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tilefinder/dataloaders"
)

func TestCoordWithOffset(t *testing.T) {
	is := is.New(t)
	c := Coord{Row: 7, Col: 7}
	is.Equal(c.WithOffset(Horizontal, 3), Coord{Row: 7, Col: 10})
	is.Equal(c.WithOffset(Vertical, -2), Coord{Row: 5, Col: 7})
	// the copied-from board is untouched
	is.Equal(c, Coord{Row: 7, Col: 7})
	is.Equal(c.Notation(Horizontal), "8H")
	is.Equal(c.Notation(Vertical), "H8")
}

func TestLoadPowerUpsFile(t *testing.T) {
	is := is.New(t)
	b := New(DefaultDim)
	is.Equal(b.LoadPowerUpsFile("testdata/powerups.config"), dataloaders.Loaded)
	is.Equal(b.PowerUp(Coord{0, 0}), TripleWord)
	is.Equal(b.PowerUp(Coord{0, 3}), DoubleLetter)
	is.Equal(b.PowerUp(Coord{1, 1}), DoubleWord)
	is.Equal(b.PowerUp(Coord{1, 5}), TripleLetter)
	is.Equal(b.PowerUp(Coord{7, 7}), DoubleWord)
	is.Equal(b.PowerUp(Coord{7, 8}), None)
}

func TestLoadPowerUpsMissing(t *testing.T) {
	is := is.New(t)
	b := New(DefaultDim)
	b.SetPowerUp(Coord{3, 3}, TripleWord)
	is.Equal(b.LoadPowerUpsFile("testdata/nope.config"), dataloaders.NotFound)
	for r := 0; r < b.Dim(); r++ {
		for c := 0; c < b.Dim(); c++ {
			is.Equal(b.PowerUp(Coord{r, c}), None)
		}
	}
}

func TestLoadPowerUpsResizes(t *testing.T) {
	is := is.New(t)
	b := New(DefaultDim)
	is.Equal(b.LoadPowerUps(strings.NewReader("T.d\r\n.D.\r\nd.T\r\n")), dataloaders.Loaded)
	is.Equal(b.Dim(), 3)
	is.Equal(b.PowerUp(Coord{2, 2}), TripleWord)
	is.Equal(b.PowerUp(Coord{1, 1}), DoubleWord)
}

func TestLoadPowerUpsShort(t *testing.T) {
	is := is.New(t)
	b := New(DefaultDim)
	is.NoErr(b.SetLetter(Coord{7, 7}, 'a', false))
	is.Equal(b.LoadPowerUps(strings.NewReader("TtD")), dataloaders.Malformed)
	is.Equal(b.Dim(), DefaultDim)
	is.Equal(b.PowerUp(Coord{0, 1}), TripleLetter)
	is.Equal(b.PowerUp(Coord{0, 3}), None)
}

func TestLoadLettersFile(t *testing.T) {
	is := is.New(t)
	b := New(DefaultDim)
	is.True(!b.HasContents())
	is.Equal(b.LoadLettersFile("testdata/board.txt"), dataloaders.Loaded)
	is.True(b.HasContents())
	is.Equal(b.TilesPlayed(), 3)
	is.Equal(b.Letter(Coord{7, 7}), byte('c'))
	is.Equal(b.Letter(Coord{7, 9}), byte('t'))
	is.True(b.IsBlankTile(Coord{7, 9}))
	is.True(!b.IsBlankTile(Coord{7, 8}))
	is.True(b.IsEmpty(Coord{7, 10}))
	is.Equal(string(b.Tiles()), "ca?")
	is.Equal(b.Rows()[7], ".......caT.....")
}

func TestLoadLettersMissing(t *testing.T) {
	is := is.New(t)
	b := FromRows([]string{"abc"})
	is.Equal(b.LoadLettersFile("testdata/nope.txt"), dataloaders.NotFound)
	is.True(!b.HasContents())
}

func TestGeometry(t *testing.T) {
	is := is.New(t)
	b := New(5)
	is.Equal(b.Center(), Coord{2, 2})
	is.True(b.InBounds(Coord{4, 4}))
	is.True(!b.InBounds(Coord{5, 0}))
	is.True(!b.InBounds(Coord{0, -1}))
	is.True(b.IsEmpty(Coord{-1, 0}))
	is.Equal(len(b.Neighbours(Coord{0, 0})), 2)
	is.Equal(len(b.Neighbours(Coord{2, 2})), 4)

	is.NoErr(b.SetLetter(Coord{2, 2}, 'q', false))
	is.True(b.HasNeighbourLetter(Coord{1, 2}))
	is.True(!b.HasNeighbourLetter(Coord{1, 1}))
	is.Equal(b.SetLetter(Coord{9, 9}, 'a', false), ErrOutOfBounds)
	is.True(b.SetLetter(Coord{0, 0}, 'A', false) != nil)

	is.NoErr(b.SetLetter(Coord{2, 2}, 0, false))
	is.True(!b.HasContents())
}

func TestPlaceWordAndCopy(t *testing.T) {
	is := is.New(t)
	b := FromRows([]string{"", "", "", "", "", "", "", ".......cat"})
	c := b.Copy()
	is.NoErr(c.PlaceWord(Coord{4, 10}, Vertical, "dogs", 0b0010))
	is.Equal(c.Letter(Coord{5, 10}), byte('o'))
	is.True(c.IsBlankTile(Coord{5, 10}))
	is.Equal(c.TilesPlayed(), 7)
	is.Equal(b.TilesPlayed(), 3)
	is.True(b.Fingerprint() != c.Fingerprint())
	is.Equal(b.Fingerprint(), FromRows([]string{"", "", "", "", "", "", "", ".......cat"}).Fingerprint())
	is.Equal(c.PlaceWord(Coord{14, 14}, Horizontal, "at", 0), ErrOutOfBounds)
}

func TestFingerprintBlank(t *testing.T) {
	is := is.New(t)
	is.True(FromRows([]string{"cat"}).Fingerprint() != FromRows([]string{"caT"}).Fingerprint())
}

func TestToDisplayText(t *testing.T) {
	is := is.New(t)
	ColorSupport = false
	defer func() { ColorSupport = true }()
	b := New(3)
	b.SetPowerUp(Coord{0, 0}, TripleWord)
	b.SetLetter(Coord{1, 1}, 'x', true)
	txt := b.ToDisplayText()
	is.True(strings.Contains(txt, "   A B C \n"))
	is.True(strings.Contains(txt, " 1|=     |"))
	is.True(strings.Contains(txt, " 2|  X   |"))
}
