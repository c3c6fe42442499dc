package wordcode

import (
	"testing"

	"github.com/matryer/is"
)

func TestRoundTrip(t *testing.T) {
	is := is.New(t)
	words := []string{"a", "aardvark", "zyzzyva", "quixotic", "abcdefghijklmno", "mississippi"}
	for _, w := range words {
		wc := Encode(w)
		is.True(wc.Valid())
		b := wc.Bytes()
		is.Equal(len(b), RecordSize)
		dec := Decode(b)
		is.True(dec.Valid())
		is.Equal(dec.String(), w)
		is.Equal(dec.Key(), wc.Key())
		is.Equal(dec.Len(), len(w))
	}
}

func TestRecordLayout(t *testing.T) {
	is := is.New(t)
	b := Encode("aba").Bytes()
	// key: a and b
	is.Equal(b[0], byte(0b11))
	is.Equal(b[4], byte(3))
	// a occupies slots 0 and 2
	is.Equal(b[5], byte(0b101))
	is.Equal(b[6], byte(0))
	// b occupies slot 1
	is.Equal(b[7], byte(0b010))
	// counts
	is.Equal(b[57], byte(2))
	is.Equal(b[58], byte(1))
}

func TestDecodeWrongSize(t *testing.T) {
	is := is.New(t)
	is.True(!Decode(nil).Valid())
	is.True(!Decode(make([]byte, RecordSize-1)).Valid())
	is.True(!Decode(make([]byte, RecordSize+1)).Valid())
	// all zeroes is the right size but describes no word.
	is.True(!Decode(make([]byte, RecordSize)).Valid())
}

func TestEncodeInvalid(t *testing.T) {
	is := is.New(t)

	long := Encode("pneumonoultramicroscopic")
	is.True(!long.Valid())
	is.Equal(long.Len(), MaxLength)
	is.Equal(long.String(), "pneumonoultrami")

	bad := Encode("don't")
	is.True(!bad.Valid())
	// Still serializable.
	is.Equal(len(bad.Bytes()), RecordSize)

	upper := Encode("CAT")
	is.True(!upper.Valid())
}

func TestKeyIsLetterSet(t *testing.T) {
	is := is.New(t)
	type tc struct {
		w1, w2 string
		same   bool
	}
	for _, c := range []tc{
		{"listen", "silent", true},
		{"aab", "abb", true},
		{"ab", "ba", true},
		{"cat", "act", true},
		{"cat", "cot", false},
		{"cat", "cats", false},
		{"tool", "loot", true},
		{"toll", "lot", true},
	} {
		is.Equal(Encode(c.w1).Key() == Encode(c.w2).Key(), c.same)
		is.Equal(Compare(Encode(c.w1), Encode(c.w2)) == 0, c.same)
	}
	is.Equal(Compare(Encode("a"), Encode("b")), -1)
	is.Equal(Compare(Encode("b"), Encode("a")), 1)
}

func TestMatchesAmounts(t *testing.T) {
	is := is.New(t)
	is.True(Encode("listen").MatchesAmounts(Encode("enlist")))
	is.True(!Encode("cat").MatchesAmounts(Encode("cats")))
	is.True(!Encode("cat").MatchesAmounts(Encode("cot")))
	is.True(!Encode("aab").MatchesAmounts(Encode("abb")))
	is.True(Encode("loot").MatchesAmounts(Encode("tool")))
}

func TestMatchesAmountsBlanks(t *testing.T) {
	is := is.New(t)
	is.True(Encode("ca?").MatchesAmounts(Encode("cat")))
	is.True(Encode("ca?").MatchesAmounts(Encode("cab")))
	is.True(Encode("ca?").MatchesAmounts(Encode("caa")))
	is.True(!Encode("ca?").MatchesAmounts(Encode("cot")))
	is.True(Encode("c??").MatchesAmounts(Encode("cot")))
	is.True(Encode("???").MatchesAmounts(Encode("zzz")))
	is.True(!Encode("c??").MatchesAmounts(Encode("dog")))
	is.True(!Encode("c??").MatchesAmounts(Encode("cats")))
	// Two letters short with one blank.
	is.True(!Encode("aa?t").MatchesAmounts(Encode("abbt")))
}

func TestMatchesPositionalMask(t *testing.T) {
	is := is.New(t)
	mask := &PositionMask{}
	mask.Set(0, 'c')
	mask.Set(2, 't')
	is.True(Encode("cat").MatchesPositionalMask(mask))
	is.True(Encode("cot").MatchesPositionalMask(mask))
	is.True(!Encode("act").MatchesPositionalMask(mask))
	is.True(!Encode("tac").MatchesPositionalMask(mask))
	is.True(Encode("tac").MatchesPositionalMask(nil))
	is.True(Encode("tac").MatchesPositionalMask(&PositionMask{}))
	is.True((&PositionMask{}).Empty())
	is.True(!mask.Empty())
	is.Equal(MaskFor(map[int]byte{0: 'c', 2: 't'}), *mask)
}

func TestMatchesPattern(t *testing.T) {
	is := is.New(t)
	is.True(Encode("cat").MatchesPattern(Encode("c?t")))
	is.True(Encode("cot").MatchesPattern(Encode("c?t")))
	is.True(!Encode("cats").MatchesPattern(Encode("c?t")))
	is.True(!Encode("act").MatchesPattern(Encode("c?t")))
	is.True(Encode("cat").MatchesPattern(Encode("cat")))
	is.True(Encode("cat").MatchesPattern(Encode("???")))
}

func TestBlankQueryWords(t *testing.T) {
	is := is.New(t)
	wc := Encode("d?g")
	is.True(wc.Valid())
	is.True(wc.HasBlanks())
	is.True(!wc.Sortable())
	is.Equal(wc.BlankCount(), 1)
	is.Equal(wc.Len(), 3)
	is.Equal(wc.String(), "d?g")
	is.Equal(wc.Count('d'), 1)
	is.Equal(wc.Positions('g'), uint16(0b100))
}

func BenchmarkEncode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Encode("quizzical")
	}
}

func BenchmarkMatchesAmounts(b *testing.B) {
	q := Encode("aeinrs?")
	c := Encode("retains")
	for i := 0; i < b.N; i++ {
		q.MatchesAmounts(c)
	}
}
