// Package config holds the settings shared by the tilefinder binaries. It
// is a thin layer over viper with a closed set of recognized keys.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigLetters      = "letters"
	ConfigLexiconDir   = "lexicon-dir"
	ConfigWordListDir  = "word-list-dir"
	ConfigShardPrefix  = "shard-prefix"
	ConfigShardSuffix  = "shard-suffix"
	ConfigPowerUps     = "powerups"
	ConfigLetterScores = "letter-scores"
	ConfigGameBoard    = "gameboard"
	ConfigDebug        = "debug"
	ConfigThreads      = "threads"
	ConfigTop          = "top"
	ConfigSolveTimeout = "solve-timeout"
	ConfigEndgameBonus = "endgame-bonus"
	ConfigDBPath       = "db-path"
	ConfigNatsURL      = "nats-url"
	ConfigConfigFile   = "config-file"
)

const DefaultConfigFile = "program.config"

type keyInfo struct {
	short string
	usage string
	path  bool
}

// keys is the full table of recognized configuration keys.
var keys = map[string]keyInfo{
	ConfigLetters:      {"l", "rack letters; use ? for a blank", false},
	ConfigLexiconDir:   {"m", "directory holding the encoded lexicon shards", true},
	ConfigWordListDir:  {"w", "directory holding plain word lists to encode", true},
	ConfigShardPrefix:  {"P", "filename prefix of a lexicon shard", false},
	ConfigShardSuffix:  {"S", "filename suffix of a lexicon shard", false},
	ConfigPowerUps:     {"p", "power-up grid file", true},
	ConfigLetterScores: {"L", "letter scores file", true},
	ConfigGameBoard:    {"g", "board state file", true},
	ConfigDebug:        {"", "debug logging", false},
	ConfigThreads:      {"", "number of solver threads", false},
	ConfigTop:          {"", "number of solutions to show", false},
	ConfigSolveTimeout: {"", "give up solving after this long (0 = never)", false},
	ConfigEndgameBonus: {"", "credit unseen tiles when the bag is empty", false},
	ConfigDBPath:       {"", "sqlite database for solve history", true},
	ConfigNatsURL:      {"", "NATS server for the solve service", false},
	ConfigConfigFile:   {"c", "key=value or yaml configuration file", false},
}

// legacyKeys maps key names used by older configuration files onto the
// current ones. Viper lower-cases keys, so these are lower case too.
var legacyKeys = map[string]string{
	"mushes":          ConfigLexiconDir,
	"mushsourcedir":   ConfigWordListDir,
	"mushgroupprefix": ConfigShardPrefix,
	"mushgroupsuffix": ConfigShardSuffix,
	"lettervalues":    ConfigLetterScores,
}

// positionalKeys are filled in order by bare command-line arguments.
var positionalKeys = []string{ConfigLetters, ConfigGameBoard}

var ErrUnknownKey = errors.New("unknown configuration key")

type Config struct {
	*viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigLexiconDir, "./data/lexica")
	v.SetDefault(ConfigWordListDir, "./data/wordlists")
	v.SetDefault(ConfigShardPrefix, "list-")
	v.SetDefault(ConfigShardSuffix, "")
	v.SetDefault(ConfigPowerUps, "powerups.config")
	v.SetDefault(ConfigLetterScores, "lettervalues.config")
	v.SetDefault(ConfigThreads, 1)
	v.SetDefault(ConfigTop, 10)
	v.SetDefault(ConfigSolveTimeout, time.Duration(0))
	v.SetDefault(ConfigEndgameBonus, false)
	v.SetDefault(ConfigDBPath, "")
	v.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	v.SetDefault(ConfigConfigFile, DefaultConfigFile)
}

// DefaultConfig returns a config with only defaults set.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{Viper: v}
}

// CanonicalKey maps a (possibly legacy) key name onto a recognized key.
func CanonicalKey(key string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	if _, ok := keys[k]; ok {
		return k, nil
	}
	if nk, ok := legacyKeys[k]; ok {
		return nk, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Load reads the configuration from, in increasing order of precedence,
// defaults, the configuration file, the environment, and args.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)
	c.SetEnvPrefix("tilefinder")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	fs := pflag.NewFlagSet("tilefinder", pflag.ContinueOnError)
	fs.StringP(ConfigLetters, keys[ConfigLetters].short, "", keys[ConfigLetters].usage)
	for _, k := range []string{ConfigLexiconDir, ConfigWordListDir, ConfigShardPrefix,
		ConfigShardSuffix, ConfigPowerUps, ConfigLetterScores, ConfigGameBoard,
		ConfigDBPath, ConfigNatsURL, ConfigConfigFile} {
		fs.StringP(k, keys[k].short, c.GetString(k), keys[k].usage)
	}
	fs.Bool(ConfigDebug, false, keys[ConfigDebug].usage)
	fs.Bool(ConfigEndgameBonus, false, keys[ConfigEndgameBonus].usage)
	fs.Int(ConfigThreads, c.GetInt(ConfigThreads), keys[ConfigThreads].usage)
	fs.Int(ConfigTop, c.GetInt(ConfigTop), keys[ConfigTop].usage)
	fs.Duration(ConfigSolveTimeout, 0, keys[ConfigSolveTimeout].usage)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	positional := fs.Args()
	pidx := 0
	for _, k := range positionalKeys {
		if pidx >= len(positional) {
			break
		}
		if fs.Changed(k) {
			continue
		}
		c.Set(k, positional[pidx])
		pidx++
	}
	for _, extra := range positional[pidx:] {
		log.Warn().Str("arg", extra).Msg("argument-has-no-key-ignoring")
	}

	return c.LoadFile(c.GetString(ConfigConfigFile))
}

// LoadFile merges a configuration file into c. A missing file is not an
// error. Files ending in .yaml, .yml, .json or .toml are read by viper;
// anything else is read as key=value lines with # comments.
func (c *Config) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", path).Msg("no-config-file")
		return nil
	}
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("config-file-unreadable")
		return nil
	}
	defer f.Close()

	var settings map[string]interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json", ".toml":
		fv := viper.New()
		fv.SetConfigType(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
		if err := fv.ReadConfig(f); err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		settings = fv.AllSettings()
	default:
		settings, err = ParseKeyValues(f)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
	}
	return c.MergeConfigMap(canonicalize(settings))
}

// canonicalize drops unknown keys (with a warning) and renames legacy ones.
func canonicalize(settings map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(settings))
	for k, v := range settings {
		ck, err := CanonicalKey(k)
		if err != nil {
			log.Warn().Str("key", k).Interface("value", v).Msg("unknown-config-key-unused")
			continue
		}
		out[ck] = v
	}
	return out
}

// ParseKeyValues reads key=value lines. Blank lines, lines starting with #
// and lines without an = are skipped.
func ParseKeyValues(r io.Reader) (map[string]interface{}, error) {
	settings := map[string]interface{}{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		settings[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return settings, scanner.Err()
}

// SetValue sets a recognized key. Unknown keys are ignored with a warning
// and reported through the returned error.
func (c *Config) SetValue(key string, value interface{}) error {
	ck, err := CanonicalKey(key)
	if err != nil {
		log.Warn().Str("key", key).Interface("value", value).Msg("unknown-config-key-unused")
		return err
	}
	c.Set(ck, value)
	return nil
}

// AdjustRelativePaths makes relative data paths relative to basedir when
// they do not exist relative to the working directory.
func (c *Config) AdjustRelativePaths(basedir string) {
	for k, info := range keys {
		if !info.path {
			continue
		}
		p := c.GetString(k)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			continue
		}
		candidate := filepath.Join(basedir, p)
		if _, err := os.Stat(candidate); err == nil {
			log.Debug().Str("key", k).Str("path", candidate).Msg("adjusted-relative-path")
			c.Set(k, candidate)
		}
	}
}

// SanitizedSettings returns the settings with credentials removed, for
// logging.
func (c *Config) SanitizedSettings() map[string]interface{} {
	s := c.AllSettings()
	if raw, ok := s[ConfigNatsURL].(string); ok {
		if u, err := url.Parse(raw); err == nil && u.User != nil {
			u.User = url.User("redacted")
			s[ConfigNatsURL] = u.String()
		}
	}
	return s
}

// FindWords returns true if there is enough configuration to look up words.
func (c *Config) FindWords() bool {
	return c.GetString(ConfigLetters) != "" && c.GetString(ConfigLexiconDir) != ""
}

// SolveGame returns true if there is enough configuration to solve a board.
func (c *Config) SolveGame() bool {
	return c.FindWords() && c.GetString(ConfigGameBoard) != ""
}
