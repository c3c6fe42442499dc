package shell

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/domino14/tilefinder/move"
)

const luaShellGlobal = "tilefinder_shell"

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal(luaShellGlobal)
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand exposes a shell command to scripts. The lua function takes
// the rest of the command line as one string and returns the output, or
// "ERROR: ..." on failure.
func luaCommand(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		line := name
		if L.GetTop() > 0 {
			line += " " + L.ToString(1)
		}
		sc := getShell(L)
		ctx := L.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		out, err := sc.Execute(ctx, line)
		if err != nil {
			log.Err(err).Str("command", name).Msg("error-executing-script-command")
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		L.Push(lua.LString(out))
		// return number of results pushed to stack.
		return 1
	}
}

var scriptCommands = []string{
	"rack", "board", "powerups", "scores", "show", "solve", "words", "exact",
	"pattern", "combos", "hist", "export", "history", "random", "set",
}

// scriptSolutions returns the last solve as a table of
// {play=, word=, coords=, score=, tiles=} tables, best first.
func scriptSolutions(L *lua.LState) int {
	sc := getShell(L)
	n := L.OptInt(1, len(sc.curSolution))
	tbl := L.NewTable()
	for _, s := range move.Top(sc.curSolution, n) {
		row := L.NewTable()
		row.RawSetString("play", lua.LString(s.ShortDescription()))
		row.RawSetString("word", lua.LString(s.Word()))
		row.RawSetString("coords", lua.LString(s.Coords()))
		row.RawSetString("score", lua.LNumber(s.Score()))
		row.RawSetString("tiles", lua.LNumber(s.TilesPlayed()))
		tbl.Append(row)
	}
	L.Push(tbl)
	return 1
}

func (sc *ShellController) script(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need arguments for script")
	}
	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal(luaShellGlobal, lsc)
	for _, name := range scriptCommands {
		L.SetGlobal("tilefinder_"+name, L.NewFunction(luaCommand(name)))
	}
	L.SetGlobal("tilefinder_solutions", L.NewFunction(scriptSolutions))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Str("script", filepath).Msg("script-failed")
		return nil, err
	}
	return nil, nil
}
