package lexicon

import (
	"sync"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/tilefinder/testhelpers"
	"github.com/domino14/tilefinder/wordcode"
)

func testLexicon(t *testing.T, words []string) *Lexicon {
	dir := testhelpers.WriteShards(t, words)
	return New(Config{Dir: dir, Prefix: testhelpers.ShardPrefix, Suffix: testhelpers.ShardSuffix})
}

func TestWordCombinationsByCount(t *testing.T) {
	combos := WordCombinationsByCount("bab")
	assert.Equal(t, map[int][]string{
		1: {"a", "b"},
		2: {"ab", "bb"},
		3: {"abb"},
	}, combos)
}

func TestWordCombinationsDistinct(t *testing.T) {
	is := is.New(t)
	combos := WordCombinationsByCount("abcdefg")
	total := 0
	for _, group := range combos {
		total += len(group)
	}
	is.Equal(total, 127)
	is.Equal(len(WordCombinationsByCount("")), 0)
	is.Equal(WordCombinationsByCount("a?")[2], []string{"?a"})
}

func TestFindMatchStrings(t *testing.T) {
	is := is.New(t)
	lex := testLexicon(t, testhelpers.CommonWords)
	assert.Equal(t, []string{"dog", "god"}, lex.FindMatchStrings("dgo", false, nil))
	assert.Equal(t,
		[]string{"do", "go", "od", "og", "dog", "god"},
		lex.FindMatchStrings("gdo", true, nil))
	is.Equal(len(lex.FindMatchStrings("xyz", true, nil)), 0)
}

func TestFindMatchStringsBlank(t *testing.T) {
	lex := testLexicon(t, testhelpers.CommonWords)
	assert.Equal(t, []string{"act", "cat", "cog", "cot"}, lex.FindMatchStrings("c??", false, nil))
}

func TestFindMatchStringsMask(t *testing.T) {
	lex := testLexicon(t, testhelpers.CommonWords)
	var mask wordcode.PositionMask
	mask.Set(0, 'g')
	assert.Equal(t, []string{"god"}, lex.FindMatchStrings("dgo", false, &mask))
}

func TestHasExactWord(t *testing.T) {
	is := is.New(t)
	lex := testLexicon(t, testhelpers.CommonWords)
	is.True(lex.HasExactWord("cats"))
	is.True(!lex.HasExactWord("cast?"))
	is.True(lex.HasExactWord("ca?s"))
	is.True(!lex.HasExactWord("tacs"))
	is.True(!lex.HasExactWord(""))
	is.True(!lex.HasExactWord("abcdefghijklmnopq"))
	is.True(!lex.HasExactWord("Cats"))
}

func TestFindPatternMatches(t *testing.T) {
	lex := testLexicon(t, testhelpers.CommonWords)
	assert.Equal(t, []string{"cog", "cot"}, lex.FindPatternMatches("co?"))
	assert.Empty(t, lex.FindPatternMatches("zz"))
}

func TestMissingShards(t *testing.T) {
	is := is.New(t)
	lex := New(Config{Dir: t.TempDir(), Prefix: "list-"})
	is.Equal(len(lex.FindMatchStrings("cat", true, nil)), 0)
	is.True(!lex.HasExactWord("cat"))
	is.Equal(lex.WordCount(), 0)
}

func TestLazyLoadingWalksUp(t *testing.T) {
	is := is.New(t)
	lex := testLexicon(t, testhelpers.CommonWords)
	is.Equal(lex.WordCount(), 0)
	lex.EnsureLoaded(2)
	is.Equal(lex.WordCount(), 15)
	is.True(lex.HasExactWord("coats"))
	// everything up to 5 letters is in now
	is.Equal(lex.WordCount(), len(testhelpers.CommonWords))
}

func TestConcurrentQueries(t *testing.T) {
	lex := testLexicon(t, testhelpers.CommonWords)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, lex.HasExactWord("coast"))
			assert.Contains(t, lex.FindMatchStrings("stac", true, nil), "cats")
		}()
	}
	wg.Wait()
}

func TestGetCaches(t *testing.T) {
	is := is.New(t)
	cfg := Config{Dir: t.TempDir(), Prefix: "x-"}
	a, err := Get(cfg)
	is.NoErr(err)
	b, err := Get(cfg)
	is.NoErr(err)
	is.True(a == b)
}

func TestBySizeThenLetters(t *testing.T) {
	is := is.New(t)
	is.True(BySizeThenLetters("zz", "aaa") < 0)
	is.True(BySizeThenLetters("ab", "aa") > 0)
	is.Equal(BySizeThenLetters("ab", "ab"), 0)
}

func TestPreload(t *testing.T) {
	is := is.New(t)
	lex := testLexicon(t, testhelpers.CommonWords)
	lex.Preload()
	is.Equal(lex.WordCount(), len(testhelpers.CommonWords))
}
