package tilemapping

import (
	"fmt"

	"lukechampine.com/frand"
)

// A Bag is the bag o'tiles, kept shuffled.
type Bag struct {
	tiles []byte
	ld    *LetterDistribution
}

// NewBag returns a full, shuffled bag for ld.
func NewBag(ld *LetterDistribution) *Bag {
	b := &Bag{ld: ld, tiles: ld.Unseen(nil)}
	b.Shuffle()
	return b
}

func (b *Bag) Shuffle() {
	frand.Shuffle(len(b.tiles), func(i, j int) {
		b.tiles[i], b.tiles[j] = b.tiles[j], b.tiles[i]
	})
}

// Draw draws n tiles from the bag.
func (b *Bag) Draw(n int) ([]byte, error) {
	if n > len(b.tiles) {
		return nil, fmt.Errorf("tried to draw %v tiles, tile bag has %v",
			n, len(b.tiles))
	}
	drawn := make([]byte, n)
	copy(drawn, b.tiles[len(b.tiles)-n:])
	b.tiles = b.tiles[:len(b.tiles)-n]
	return drawn, nil
}

// DrawAtMost draws at most n tiles from the bag. It can draw fewer if there
// are fewer tiles than n, and even draw no tiles at all.
func (b *Bag) DrawAtMost(n int) []byte {
	if n > len(b.tiles) {
		n = len(b.tiles)
	}
	drawn, _ := b.Draw(n)
	return drawn
}

// RemoveTiles takes the given tiles out of the bag, and returns an error
// if it can't. The bag is unchanged on error.
func (b *Bag) RemoveTiles(tiles []byte) error {
	remaining := make([]byte, len(b.tiles))
	copy(remaining, b.tiles)
	for _, t := range tiles {
		found := false
		for i := range remaining {
			if remaining[i] == t {
				remaining[i] = remaining[len(remaining)-1]
				remaining = remaining[:len(remaining)-1]
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("cannot remove the tile %c from the bag, as it is not in the bag", t)
		}
	}
	b.tiles = remaining
	b.Shuffle()
	return nil
}

func (b *Bag) TilesRemaining() int {
	return len(b.tiles)
}
