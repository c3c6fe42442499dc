// Package lexicon loads encoded word shards on demand and answers the
// anagram, subset and membership queries the solver needs.
package lexicon

import (
	"cmp"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/tilefinder/cache"
	"github.com/domino14/tilefinder/config"
	"github.com/domino14/tilefinder/dataloaders"
	"github.com/domino14/tilefinder/wordcode"
	"github.com/domino14/tilefinder/wordindex"
)

// Config names the shard files of a lexicon: the shard for words of length
// L lives at Dir/Prefix + L + Suffix.
type Config struct {
	Dir    string
	Prefix string
	Suffix string
}

// ConfigFrom pulls the shard naming policy out of the program configuration.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Dir:    cfg.GetString(config.ConfigLexiconDir),
		Prefix: cfg.GetString(config.ConfigShardPrefix),
		Suffix: cfg.GetString(config.ConfigShardSuffix),
	}
}

func (c Config) ShardPath(length int) string {
	return filepath.Join(c.Dir, c.Prefix+strconv.Itoa(length)+c.Suffix)
}

func (c Config) cacheKey() string {
	return "lexicon:" + filepath.Join(c.Dir, c.Prefix+"*"+c.Suffix)
}

// Lexicon owns one WordIndex per word length. Indexes are loaded lazily;
// a Lexicon is safe for concurrent use.
type Lexicon struct {
	cfg     Config
	mu      sync.Mutex
	indexes [wordcode.MaxLength + 1]*wordindex.WordIndex
	// loadedUpTo is the high-water mark: every length <= it is loaded.
	loadedUpTo atomic.Int32
}

func New(cfg Config) *Lexicon {
	return &Lexicon{cfg: cfg}
}

// Get returns the process-wide Lexicon for cfg, creating it on first use.
func Get(cfg Config) (*Lexicon, error) {
	obj, err := cache.Load(cfg.cacheKey(), func(string) (any, error) {
		return New(cfg), nil
	})
	if err != nil {
		return nil, err
	}
	return obj.(*Lexicon), nil
}

func (l *Lexicon) Config() Config {
	return l.cfg
}

// EnsureLoaded loads every index from the current high-water mark up
// through length. Lengths outside 1..MaxLength are ignored.
func (l *Lexicon) EnsureLoaded(length int) {
	if length < 1 || length > wordcode.MaxLength || int(l.loadedUpTo.Load()) >= length {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for next := int(l.loadedUpTo.Load()) + 1; next <= length; next++ {
		l.indexes[next] = l.loadShard(next)
		l.loadedUpTo.Store(int32(next))
	}
}

func (l *Lexicon) loadShard(length int) *wordindex.WordIndex {
	idx := wordindex.New()
	path := l.cfg.ShardPath(length)
	res := dataloaders.LoadFile(path, func(r io.Reader) dataloaders.LoadResult {
		n, err := idx.Load(r)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Int("words", n).Msg("shard-load-error")
			return dataloaders.Malformed
		}
		return dataloaders.Loaded
	})
	log.Debug().Str("path", path).Stringer("result", res).Int("words", idx.Len()).Msg("loaded-shard")
	return idx
}

// index returns the index for length, loading it if needed. It returns nil
// for lengths that can't hold words.
func (l *Lexicon) index(length int) *wordindex.WordIndex {
	if length < 1 || length > wordcode.MaxLength {
		return nil
	}
	l.EnsureLoaded(length)
	return l.indexes[length]
}

// Preload loads every length. It warns if the shards are large compared to
// the machine's memory.
func (l *Lexicon) Preload() {
	var onDisk uint64
	for length := 1; length <= wordcode.MaxLength; length++ {
		if fi, err := os.Stat(l.cfg.ShardPath(length)); err == nil {
			onDisk += uint64(fi.Size())
		}
	}
	if total := memory.TotalMemory(); total > 0 && onDisk > total/4 {
		log.Warn().Uint64("shard-bytes", onDisk).Uint64("total-memory", total).
			Msg("lexicon-larger-than-quarter-of-memory")
	}
	l.EnsureLoaded(wordcode.MaxLength)
}

// WordCount is the number of words loaded so far.
func (l *Lexicon) WordCount() int {
	n := 0
	for length := 1; length <= int(l.loadedUpTo.Load()); length++ {
		n += l.indexes[length].Len()
	}
	return n
}

// FindMatchStrings returns dictionary words made from rack. With
// expandSubsets every distinct sub-multiset of rack is tried; otherwise
// rack is a single query using all its letters. Blanks (?) stand for any
// letter. Results are distinct and sorted by BySizeThenLetters.
func (l *Lexicon) FindMatchStrings(rack string, expandSubsets bool, mask *wordcode.PositionMask) []string {
	queries := []string{rack}
	if expandSubsets {
		queries = lo.Flatten(lo.Values(WordCombinationsByCount(rack)))
	}
	var found []string
	for _, q := range queries {
		idx := l.index(len(q))
		if idx == nil {
			continue
		}
		for _, wc := range idx.FindMatches(wordcode.Encode(q), mask) {
			found = append(found, wc.String())
		}
	}
	found = lo.Uniq(found)
	slices.SortFunc(found, BySizeThenLetters)
	return found
}

// HasExactWord is true if candidate is in the dictionary, slot for slot.
// Blanks in candidate match any letter at that slot.
func (l *Lexicon) HasExactWord(candidate string) bool {
	idx := l.index(len(candidate))
	if idx == nil {
		return false
	}
	wc := wordcode.Encode(candidate)
	if !wc.Valid() {
		return false
	}
	return idx.HasExact(wc)
}

// FindPatternMatches returns the words that fit pattern, where ? matches
// any letter.
func (l *Lexicon) FindPatternMatches(pattern string) []string {
	idx := l.index(len(pattern))
	if idx == nil {
		return nil
	}
	found := lo.Map(idx.FindPatternMatches(wordcode.Encode(pattern)),
		func(wc wordcode.WordCode, _ int) string { return wc.String() })
	slices.SortFunc(found, BySizeThenLetters)
	return found
}

// BySizeThenLetters orders shorter strings first, then alphabetically.
func BySizeThenLetters(a, b string) int {
	return cmp.Or(cmp.Compare(len(a), len(b)), cmp.Compare(a, b))
}
