package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/domino14/tilefinder/config"
	"github.com/domino14/tilefinder/store"
	"github.com/domino14/tilefinder/testhelpers"
	"github.com/domino14/tilefinder/tilemapping"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"export -top 5 /path/to/out.yaml",
			&shellcmd{"export", []string{"/path/to/out.yaml"}, map[string]string{"top": "5"}},
			nil},
		{"solve 20",
			&shellcmd{"solve", []string{"20"}, map[string]string{}},
			nil},
		{`script "my script.lua" `,
			&shellcmd{"script", []string{"my script.lua"}, map[string]string{}},
			nil},
		{"solve 20 -threads",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func testController(t *testing.T) (*ShellController, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigLexiconDir, testhelpers.WriteShards(t, testhelpers.CommonWords))
	cfg.Set(config.ConfigShardPrefix, testhelpers.ShardPrefix)
	cfg.Set(config.ConfigShardSuffix, testhelpers.ShardSuffix)
	cfg.Set(config.ConfigPowerUps, "")
	cfg.Set(config.ConfigLetterScores, "")
	out := &bytes.Buffer{}
	sc, err := newController(cfg, out)
	if err != nil {
		t.Fatal(err)
	}
	sc.ld = tilemapping.EnglishLetterDistribution()
	sc.board.SetRows([]string{"", "", "", "", "", "", "", ".......cat"})
	return sc, out
}

func run(t *testing.T, sc *ShellController, line string) string {
	t.Helper()
	out, err := sc.Execute(context.Background(), line)
	if err != nil {
		t.Fatalf("%s: %v", line, err)
	}
	return out
}

func TestRack(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	is.Equal(run(t, sc, "rack"), "No rack set.")
	is.Equal(run(t, sc, "rack s?OD g"), "Rack: dgos?")
	is.Equal(run(t, sc, "rack"), "Rack: dgos?")

	_, err := sc.Execute(context.Background(), "rack d0g")
	is.True(err != nil)
	is.Equal(sc.rack, "dgos?")
}

func TestSolveCommand(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	run(t, sc, "rack sdog")
	out := run(t, sc, "solve 1000")
	is.True(strings.Contains(out, "K5 dogs"))
	is.True(strings.HasPrefix(out, solutionTableHeader()))
	is.True(len(sc.curSolution) > 0)
	is.Equal(sc.solvedRack, "dgos")

	out = run(t, sc, "solve 1 -threads 3")
	is.Equal(len(strings.Split(out, "\n")), 3)
}

func TestSolveWithoutRack(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	_, err := sc.Execute(context.Background(), "solve")
	is.True(err != nil)
}

func TestLexiconCommands(t *testing.T) {
	sc, _ := testController(t)
	assert.Equal(t, "cat is valid", run(t, sc, "exact CAT"))
	assert.Equal(t, "cta is not valid", run(t, sc, "exact cta"))
	assert.Equal(t, "cat cot", run(t, sc, "pattern c?t"))
	assert.Equal(t, "No words found.", run(t, sc, "pattern zz"))
	assert.Contains(t, run(t, sc, "words tac"), "act cat")
	assert.Equal(t, " 1: 3\n 2: 3\n 3: 1", run(t, sc, "combos abc"))
}

func TestHistAndExport(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	_, err := sc.Execute(context.Background(), "hist")
	is.True(errors.Is(err, errNoSolution))

	run(t, sc, "rack sdog")
	run(t, sc, "solve")
	is.True(run(t, sc, "hist") != "")

	path := filepath.Join(t.TempDir(), "out.yaml")
	is.Equal(run(t, sc, "export -top 2 "+path), "Exported 2 solutions to "+path)
	data, err := os.ReadFile(path)
	is.NoErr(err)
	ex := exportedSolve{}
	is.NoErr(yaml.Unmarshal(data, &ex))
	is.Equal(ex.Rack, "dgos")
	is.Equal(len(ex.Solutions), 2)
	is.True(ex.Solutions[0].Score >= ex.Solutions[1].Score)
	is.Equal(ex.Board[7], ".......cat.....")
}

func TestHistory(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	sc, _ := testController(t)
	_, err := sc.Execute(ctx, "history")
	is.True(errors.Is(err, errNoHistory))

	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "history.db"))
	is.NoErr(err)
	defer st.Close()
	sc.WithHistory(st)

	is.Equal(run(t, sc, "history"), "No solves recorded.")
	run(t, sc, "rack sdog")
	run(t, sc, "solve")
	out := run(t, sc, "history 5")
	is.True(strings.Contains(out, "dgos"))
	is.Equal(len(strings.Split(out, "\n")), 1)
}

func TestRandom(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	out := run(t, sc, "random")
	is.True(strings.HasPrefix(out, "Rack: "))
	// 100 tiles, minus 3 on the board and 7 drawn
	is.True(strings.HasSuffix(out, "(90 tiles left in the bag)"))
	rack, err := tilemapping.RackFromString(sc.rack)
	is.NoErr(err)
	is.Equal(rack.NumTiles(), 7)
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	is.Equal(run(t, sc, "set top 3"), "top set to 3")
	is.Equal(sc.config.GetInt(config.ConfigTop), 3)
	_, err := sc.Execute(context.Background(), "set nonsense 3")
	is.True(err != nil)
	is.True(strings.Contains(run(t, sc, "set"), "shard-prefix"))
}

func TestScript(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	script := `
tilefinder_rack("sdog")
tilefinder_solve("3")
local sols = tilefinder_solutions(2)
if #sols ~= 2 then error("expected two solutions") end
if sols[1].score < sols[2].score then error("not best first") end
if tilefinder_exact("cat") ~= "cat is valid" then error("cat should be valid") end
if string.sub(tilefinder_exact(""), 1, 6) ~= "ERROR:" then error("expected an error") end
`
	path := filepath.Join(t.TempDir(), "solve.lua")
	is.NoErr(os.WriteFile(path, []byte(script), 0o644))
	_, err := sc.Execute(context.Background(), "script "+path)
	is.NoErr(err)
	is.Equal(sc.rack, "dgos")
	is.True(len(sc.curSolution) > 2)
}

func TestScriptError(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	path := filepath.Join(t.TempDir(), "bad.lua")
	is.NoErr(os.WriteFile(path, []byte(`error("boom")`), 0o644))
	_, err := sc.Execute(context.Background(), "script "+path)
	is.True(err != nil)
}

func TestHelpAndUnknown(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	is.True(strings.Contains(run(t, sc, "help"), "solve [n]"))
	is.Equal(run(t, sc, "help exact"), commands["exact"].usage)
	_, err := sc.Execute(context.Background(), "frobnicate")
	is.True(err != nil)
	_, err = sc.Execute(context.Background(), "exit")
	is.True(errors.Is(err, errExit))
}
