package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tilefinder/board"
	"github.com/domino14/tilefinder/config"
	"github.com/domino14/tilefinder/dataloaders"
	"github.com/domino14/tilefinder/lexicon"
	"github.com/domino14/tilefinder/move"
	"github.com/domino14/tilefinder/store"
	"github.com/domino14/tilefinder/tilemapping"
)

const HistoryFile = "/tmp/tilefinder_readline.tmp"

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errExit              = errors.New("exit requested")
)

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	lex     *lexicon.Lexicon
	board   *board.Board
	ld      *tilemapping.LetterDistribution
	history *store.Store

	rack        string
	curSolution []*move.Solution
	solvedRack  string
}

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func completer() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(commands))
	for _, c := range commandNames() {
		items = append(items, readline.PcItem(c))
	}
	return readline.NewPrefixCompleter(items...)
}

// newController loads the lexicon, board and letter scores named in cfg.
// Missing files leave defaults in place.
func newController(cfg *config.Config, out io.Writer) (*ShellController, error) {
	lex, err := lexicon.Get(lexicon.ConfigFrom(cfg))
	if err != nil {
		return nil, err
	}
	sc := &ShellController{
		out:    out,
		config: cfg,
		lex:    lex,
		board:  board.New(board.DefaultDim),
		rack:   tilemapping.NormalizeRack(cfg.GetString(config.ConfigLetters)),
	}
	if p := cfg.GetString(config.ConfigPowerUps); p != "" {
		sc.board.LoadPowerUpsFile(p)
	}
	if p := cfg.GetString(config.ConfigGameBoard); p != "" {
		sc.board.LoadLettersFile(p)
	}
	sc.ld = &tilemapping.LetterDistribution{}
	if p := cfg.GetString(config.ConfigLetterScores); p != "" {
		var res dataloaders.LoadResult
		sc.ld, res = tilemapping.LoadLetterDistribution(p)
		log.Debug().Stringer("result", res).Str("path", p).Msg("letter-scores")
	}
	return sc, nil
}

// NewShellController sets up the readline instance and loads everything the
// configuration names.
func NewShellController(cfg *config.Config) (*ShellController, error) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mtilefinder>\033[0m ",
		HistoryFile:     HistoryFile,
		AutoComplete:    completer(),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	sc, err := newController(cfg, l.Stdout())
	if err != nil {
		l.Close()
		return nil, err
	}
	sc.l = l
	return sc, nil
}

// WithHistory records solves in st and enables the history command.
func (sc *ShellController) WithHistory(st *store.Store) *ShellController {
	sc.history = st
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	io.WriteString(sc.out, msg)
	io.WriteString(sc.out, "\n")
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// extractFields splits a line into a command, its positional arguments and
// its -key value options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && len(fields[i]) > 1 {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[i][1:]] = fields[i+1]
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (c *shellcmd) intOption(key string, defaultI int) (int, error) {
	v, ok := c.options[key]
	if !ok {
		return defaultI, nil
	}
	return strconv.Atoi(v)
}

// Execute runs one command line and returns its output.
func (sc *ShellController) Execute(ctx context.Context, line string) (string, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return "", err
	}
	handler, ok := commands[cmd.cmd]
	if !ok {
		return "", fmt.Errorf("unknown command %q; try help", cmd.cmd)
	}
	resp, err := handler.run(sc, ctx, cmd)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	return resp.message, nil
}

func (sc *ShellController) Loop(ctx context.Context, sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out, err := sc.Execute(ctx, line)
		if errors.Is(err, errExit) {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if out != "" {
			sc.showMessage(out)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
