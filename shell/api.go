package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/domino14/tilefinder/config"
	"github.com/domino14/tilefinder/dataloaders"
	"github.com/domino14/tilefinder/lexicon"
	"github.com/domino14/tilefinder/move"
	"github.com/domino14/tilefinder/solver"
	"github.com/domino14/tilefinder/store"
	"github.com/domino14/tilefinder/tilemapping"
)

const (
	defaultHistory = 10
	histogramBins  = 15
	histogramWidth = 50
)

var (
	errNoSolution = errors.New("nothing solved yet; try solve")
	errNoHistory  = errors.New("no solve history; set db-path")
)

type command struct {
	run   func(*ShellController, context.Context, *shellcmd) (*Response, error)
	usage string
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"rack":     {(*ShellController).setRack, "rack [letters] - show or set the rack; ? is a blank"},
		"board":    {(*ShellController).loadBoard, "board <file> - load a board state file"},
		"powerups": {(*ShellController).loadPowerUps, "powerups <file> - load a power-up grid"},
		"scores":   {(*ShellController).loadScores, "scores <file> - load a letter scores file"},
		"show":     {(*ShellController).show, "show - display the board and rack"},
		"solve":    {(*ShellController).solve, "solve [n] - find the best n placements of the rack"},
		"words":    {(*ShellController).words, "words <letters> - every word made from the letters"},
		"exact":    {(*ShellController).exact, "exact <word> - is word in the dictionary"},
		"pattern":  {(*ShellController).pattern, "pattern <p> - words fitting p, where ? is any letter"},
		"combos":   {(*ShellController).combos, "combos <letters> - count the letter combinations per size"},
		"hist":     {(*ShellController).hist, "hist - histogram of the last solve's scores"},
		"export":   {(*ShellController).export, "export <file.yaml> - write the last solve to a yaml file"},
		"history":  {(*ShellController).showHistory, "history [n] - the n most recent recorded solves"},
		"random":   {(*ShellController).random, "random - draw a rack from the tiles not on the board"},
		"set":      {(*ShellController).set, "set <key> <value> - change a setting; no args lists them"},
		"script":   {(*ShellController).script, "script <file.lua> - run a lua script"},
		"help":     {(*ShellController).help, "help [command] - this text"},
		"exit":     {(*ShellController).exit, "exit - leave the shell"},
	}
}

func commandNames() []string {
	names := lo.Keys(commands)
	slices.Sort(names)
	return names
}

func (sc *ShellController) help(_ context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 {
		c, ok := commands[cmd.args[0]]
		if !ok {
			return msg("There is no help text for the topic " + cmd.args[0]), nil
		}
		return msg(c.usage), nil
	}
	var sb strings.Builder
	sb.WriteString("Commands:\n")
	for _, name := range commandNames() {
		sb.WriteString("  " + commands[name].usage + "\n")
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) exit(_ context.Context, _ *shellcmd) (*Response, error) {
	return nil, errExit
}

func (sc *ShellController) setRack(_ context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		if sc.rack == "" {
			return msg("No rack set."), nil
		}
		return msg("Rack: " + sc.rack), nil
	}
	rack, err := tilemapping.RackFromString(strings.Join(cmd.args, ""))
	if err != nil {
		return nil, err
	}
	sc.rack = rack.String()
	return msg("Rack: " + sc.rack), nil
}

func loadMessage(what, path string, res dataloaders.LoadResult) (*Response, error) {
	switch res {
	case dataloaders.Loaded:
		return msg(fmt.Sprintf("Loaded %s from %s", what, path)), nil
	case dataloaders.NotFound:
		return nil, fmt.Errorf("%s file %s not found; defaults kept", what, path)
	}
	return msg(fmt.Sprintf("Loaded %s from %s, skipping malformed lines", what, path)), nil
}

func (sc *ShellController) loadBoard(_ context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need a board file")
	}
	return loadMessage("board", cmd.args[0], sc.board.LoadLettersFile(cmd.args[0]))
}

func (sc *ShellController) loadPowerUps(_ context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need a power-up file")
	}
	return loadMessage("power-ups", cmd.args[0], sc.board.LoadPowerUpsFile(cmd.args[0]))
}

func (sc *ShellController) loadScores(_ context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need a letter scores file")
	}
	ld, res := tilemapping.LoadLetterDistribution(cmd.args[0])
	sc.ld = ld
	return loadMessage("letter scores", cmd.args[0], res)
}

func (sc *ShellController) show(_ context.Context, _ *shellcmd) (*Response, error) {
	var sb strings.Builder
	sb.WriteString(sc.board.ToDisplayText())
	sb.WriteString("Rack: " + sc.rack)
	return msg(sb.String()), nil
}

func solutionTableHeader() string {
	return "     Play                Tiles  Score"
}

func solutionTableRow(idx int, s *move.Solution) string {
	return fmt.Sprintf("%3d: %-20s%-7d%-6d", idx+1, s.ShortDescription(), s.TilesPlayed(), s.Score())
}

func (sc *ShellController) solve(ctx context.Context, cmd *shellcmd) (*Response, error) {
	n := sc.config.GetInt(config.ConfigTop)
	if len(cmd.args) > 0 {
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	opts := solver.OptionsFrom(sc.config)
	threads, err := cmd.intOption("threads", opts.Threads)
	if err != nil {
		return nil, err
	}
	opts.Threads = threads
	sols, err := solver.New(sc.lex, sc.board, sc.ld, opts).Solve(ctx, sc.rack)
	if err != nil && len(sols) == 0 {
		return nil, err
	}
	if err != nil {
		log.Warn().Err(err).Int("found", len(sols)).Msg("solve-interrupted")
	}
	sc.curSolution = sols
	sc.solvedRack = sc.rack
	if sc.history != nil {
		if _, herr := sc.history.Record(ctx, store.NewEntry(sc.rack, sc.board, sols, n)); herr != nil {
			log.Err(herr).Msg("could-not-record-solve")
		}
	}
	if len(sols) == 0 {
		return msg("No placements found."), nil
	}
	var sb strings.Builder
	sb.WriteString(solutionTableHeader() + "\n")
	for i, s := range move.Top(sols, n) {
		sb.WriteString(solutionTableRow(i, s) + "\n")
	}
	fmt.Fprintf(&sb, "%d placements", len(sols))
	return msg(sb.String()), nil
}

func (sc *ShellController) words(_ context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need letters")
	}
	found := sc.lex.FindMatchStrings(tilemapping.NormalizeRack(cmd.args[0]), true, nil)
	if len(found) == 0 {
		return msg("No words found."), nil
	}
	return msg(strings.Join(found, " ")), nil
}

func (sc *ShellController) exact(_ context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need a word")
	}
	word := strings.ToLower(cmd.args[0])
	if sc.lex.HasExactWord(word) {
		return msg(word + " is valid"), nil
	}
	return msg(word + " is not valid"), nil
}

func (sc *ShellController) pattern(_ context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need a pattern")
	}
	found := sc.lex.FindPatternMatches(strings.ToLower(cmd.args[0]))
	if len(found) == 0 {
		return msg("No words found."), nil
	}
	return msg(strings.Join(found, " ")), nil
}

func (sc *ShellController) combos(_ context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need letters")
	}
	byCount := lexicon.WordCombinationsByCount(tilemapping.NormalizeRack(cmd.args[0]))
	sizes := lo.Keys(byCount)
	slices.Sort(sizes)
	var sb strings.Builder
	for _, size := range sizes {
		fmt.Fprintf(&sb, "%2d: %d\n", size, len(byCount[size]))
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) hist(_ context.Context, _ *shellcmd) (*Response, error) {
	if len(sc.curSolution) == 0 {
		return nil, errNoSolution
	}
	scores := lo.Map(sc.curSolution, func(s *move.Solution, _ int) float64 { return float64(s.Score()) })
	var sb strings.Builder
	if err := histogram.Fprint(&sb, histogram.Hist(histogramBins, scores), histogram.Linear(histogramWidth)); err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

type exportedSolution struct {
	Play   string `yaml:"play"`
	Word   string `yaml:"word"`
	Coords string `yaml:"coords"`
	Score  int    `yaml:"score"`
	Tiles  int    `yaml:"tiles"`
}

type exportedSolve struct {
	Rack      string             `yaml:"rack"`
	Board     []string           `yaml:"board"`
	Solutions []exportedSolution `yaml:"solutions"`
}

func (sc *ShellController) export(_ context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need a filename")
	}
	if len(sc.curSolution) == 0 {
		return nil, errNoSolution
	}
	n, err := cmd.intOption("top", len(sc.curSolution))
	if err != nil {
		return nil, err
	}
	ex := exportedSolve{Rack: sc.solvedRack, Board: sc.board.Rows()}
	for _, s := range move.Top(sc.curSolution, n) {
		ex.Solutions = append(ex.Solutions, exportedSolution{
			Play:   s.ShortDescription(),
			Word:   s.Word(),
			Coords: s.Coords(),
			Score:  s.Score(),
			Tiles:  s.TilesPlayed(),
		})
	}
	out, err := yaml.Marshal(ex)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(cmd.args[0], out, 0o644); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("Exported %d solutions to %s", len(ex.Solutions), cmd.args[0])), nil
}

func (sc *ShellController) showHistory(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if sc.history == nil {
		return nil, errNoHistory
	}
	n := defaultHistory
	if len(cmd.args) > 0 {
		var err error
		if n, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	entries, err := sc.history.Recent(ctx, n)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return msg("No solves recorded."), nil
	}
	var sb strings.Builder
	for _, e := range entries {
		best := "-"
		if len(e.Solutions) > 0 {
			best = fmt.Sprintf("%s (%d)", e.Solutions[0].Description, e.Solutions[0].Score)
		}
		fmt.Fprintf(&sb, "%4d %s %-8s %016x %s\n", e.ID, e.CreatedAt.Format("2006-01-02 15:04"),
			e.Rack, e.Fingerprint, best)
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) random(_ context.Context, _ *shellcmd) (*Response, error) {
	ld := sc.ld
	if ld.NumTotalTiles() == 0 {
		ld = tilemapping.EnglishLetterDistribution()
	}
	bag := tilemapping.NewBag(ld)
	for _, t := range sc.board.Tiles() {
		// Boards may hold more of a letter than the distribution allows.
		if err := bag.RemoveTiles([]byte{t}); err != nil {
			log.Debug().Err(err).Str("tile", string(t)).Msg("board-tile-not-in-bag")
		}
	}
	drawn := bag.DrawAtMost(solver.RackSize)
	if len(drawn) == 0 {
		return nil, errors.New("no tiles left to draw")
	}
	rack, err := tilemapping.RackFromString(string(drawn))
	if err != nil {
		return nil, err
	}
	sc.rack = rack.String()
	return msg(fmt.Sprintf("Rack: %s (%d tiles left in the bag)", sc.rack, bag.TilesRemaining())), nil
}

func (sc *ShellController) set(_ context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		settings := sc.config.SanitizedSettings()
		keys := lo.Keys(settings)
		slices.Sort(keys)
		var sb strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&sb, "%-16s %v\n", k, settings[k])
		}
		return msg(strings.TrimRight(sb.String(), "\n")), nil
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: set <key> <value>")
	}
	if err := sc.config.SetValue(cmd.args[0], cmd.args[1]); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("%s set to %s", cmd.args[0], cmd.args[1])), nil
}
