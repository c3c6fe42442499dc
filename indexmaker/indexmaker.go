// Package indexmaker turns plain word lists into the sorted, fixed-record
// shard files a lexicon loads: one shard per word length.
package indexmaker

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/domino14/tilefinder/wordcode"
)

var wordRegex = regexp.MustCompile(`^[a-z]+$`)

// CleanWords reads one word per line and keeps the ones made only of a-z
// after trimming and lowercasing. Input that isn't valid UTF-8 is read as
// ISO-8859-1. Duplicates are dropped.
func CleanWords(r io.Reader) ([]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading word list: %w", err)
	}
	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}
	var words []string
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if wordRegex.MatchString(w) {
			words = append(words, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning word list: %w", err)
	}
	return lo.Uniq(words), nil
}

// SplitByLength groups words by length. Words longer than the longest
// shard are dropped.
func SplitByLength(words []string) map[int][]string {
	kept := lo.Filter(words, func(w string, _ int) bool {
		return len(w) > 0 && len(w) <= wordcode.MaxLength
	})
	return lo.GroupBy(kept, func(w string) int { return len(w) })
}

// EncodeShard encodes words, sorts them by key and writes the records to w.
// It returns the number of records written.
func EncodeShard(w io.Writer, words []string) (int, error) {
	codes := make([]wordcode.WordCode, 0, len(words))
	for _, word := range words {
		wc := wordcode.Encode(word)
		if !wc.Valid() {
			continue
		}
		codes = append(codes, wc)
	}
	slices.SortStableFunc(codes, wordcode.Compare)
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, wordcode.RecordSize)
	for _, wc := range codes {
		buf = wc.AppendBytes(buf[:0])
		if _, err := bw.Write(buf); err != nil {
			return 0, fmt.Errorf("writing shard: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("flushing shard: %w", err)
	}
	return len(codes), nil
}

// Options says where the word lists come from and how shards are named.
type Options struct {
	// Sources are word-list files. A directory contributes every regular
	// file inside it.
	Sources []string
	OutDir  string
	Prefix  string
	Suffix  string
}

// ShardPath is the output path for the shard of the given length.
func (o Options) ShardPath(length int) string {
	return filepath.Join(o.OutDir, o.Prefix+strconv.Itoa(length)+o.Suffix)
}

// Report is the outcome of MakeIndex: the words written to each shard.
type Report struct {
	Words  int
	Shards map[int]int
}

func expandSources(sources []string) ([]string, error) {
	var files []string
	for _, src := range sources {
		fi, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("word list %s: %w", src, err)
		}
		if !fi.IsDir() {
			files = append(files, src)
			continue
		}
		entries, err := os.ReadDir(src)
		if err != nil {
			return nil, fmt.Errorf("word list dir %s: %w", src, err)
		}
		for _, e := range entries {
			if e.Type().IsRegular() {
				files = append(files, filepath.Join(src, e.Name()))
			}
		}
	}
	return files, nil
}

func readSource(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return CleanWords(f)
}

// MakeIndex cleans every source, splits the words by length and writes
// one shard per length, all lengths in parallel. Every length from 1 up
// gets a shard file, even if empty, so a lexicon never reports it missing.
func MakeIndex(ctx context.Context, opts Options) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	files, err := expandSources(opts.Sources)
	if err != nil {
		return nil, err
	}
	var words []string
	for _, f := range files {
		ws, err := readSource(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		logger.Debug().Str("file", f).Int("words", len(ws)).Msg("read-word-list")
		words = append(words, ws...)
	}
	words = lo.Uniq(words)
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	byLength := SplitByLength(words)
	counts := make([]int, wordcode.MaxLength+1)
	g, gctx := errgroup.WithContext(ctx)
	for length := 1; length <= wordcode.MaxLength; length++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n, err := writeShard(opts.ShardPath(length), byLength[length])
			if err != nil {
				return err
			}
			counts[length] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Shards: make(map[int]int)}
	for length, n := range counts {
		if n > 0 {
			report.Shards[length] = n
			report.Words += n
		}
	}
	logger.Info().Int("words", report.Words).Int("shards", len(report.Shards)).
		Str("dir", opts.OutDir).Msg("index-written")
	return report, nil
}

func writeShard(path string, words []string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating shard: %w", err)
	}
	n, err := EncodeShard(f, words)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing shard: %w", cerr)
	}
	return n, err
}
