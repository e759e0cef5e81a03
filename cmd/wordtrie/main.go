/*
Package main implements the wordtrie completion server and its CLI [DBG] mode.

wordtrie ranks completions with a pruning radix trie: every node remembers the
best frequency below it, so a top-k query stops descending as soon as no
remaining branch can beat the k-th result already found.

# Usage

Start the server with default settings:

	wordtrie

Use a custom data directory and enable debug mode:

	wordtrie -data /path/to/corpora -d

Load a single corpus file and run the interactive CLI:

	wordtrie -corpus words.tsv.gz -c -limit 10 -prmin 2

The data directory holds frequency corpora: one "term<TAB>count" pair per
line, as .txt or .tsv, optionally gzip or zstd compressed. Every file found is
loaded; counts of repeated terms add up.

# Configuration

Runtime configuration is read from a TOML file, created with defaults when
missing:

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60
	enable_filter = true
	reload_every = 1000

	[dict]
	corpus_dir = "data/"
	separator = "tab"
	normalize = true
	fold_case = true
	min_frequency_threshold = 0
	min_frequency_short_prefix = 0
	cache_size = 1024
	save_path = ""
	autosave = "5m"

	[log]
	level = "warn"
	file = ""

When dict.save_path exists it is loaded instead of the corpus directory, since
it already holds every term. With autosave set, a dirty dictionary is written
back periodically and once more on exit.

# IPC Protocol

The server reads MessagePack requests from stdin and writes responses to
stdout. Logs go to stderr or the configured log file.

	{"id": "req1", "p": "hel", "l": 3}
	{"id": "req1", "s": [{"w": "hello", "r": 1, "f": 120}], "c": 1, "pf": 0, "t": 14}

Dictionary requests:

	{"id": "d1", "action": "get_info"}
	{"id": "d2", "action": "add_term", "term": "wordtrie", "count": 5}
	{"id": "d3", "action": "save"}
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/bastiangx/wordtrie/internal/cli"
	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/server"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0"
	AppName = "wordtrie"
	gh      = "https://github.com/bastiangx/wordtrie"
)

// shutdown runs the registered cleanups once, from a signal or a normal exit.
type shutdown struct {
	once  sync.Once
	mu    sync.Mutex
	funcs []func()
}

func (s *shutdown) add(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.funcs = append(s.funcs, fn)
}

func (s *shutdown) run() {
	s.once.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := len(s.funcs) - 1; i >= 0; i-- {
			s.funcs[i]()
		}
	})
}

// sigHandler runs the cleanups on SIGINT/SIGTERM and exits.
func sigHandler(s *shutdown) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		s.run()
		os.Exit(0)
	}()
}

func fatal(s *shutdown, format string, args ...any) {
	log.Errorf(format, args...)
	s.run()
	os.Exit(1)
}

// main wires config, dictionary, completer and the chosen front end.
func main() {
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configFile := flag.String("config", "", "Path to config.toml (default: user config dir)")
	dataDir := flag.String("data", "", "Directory containing corpus files (default from config)")
	corpusFile := flag.String("corpus", "", "Load this single corpus file instead of the data dir")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaults.CLI.DefaultLimit, "Number of suggestions to return")
	minPrefix := flag.Int("prmin", defaults.CLI.DefaultMinLen, "Minimum prefix length for suggestions (1 <= n <= prmax)")
	maxPrefix := flag.Int("prmax", defaults.CLI.DefaultMaxLen, "Maximum prefix length for suggestions")
	noFilter := flag.Bool("no-filter", defaults.CLI.DefaultNoFilter, "Disable input filtering (DBG only) - shows all raw dictionary entries (numbers, symbols, etc)")
	diag := flag.Bool("diag", false, "Print path diagnostics and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		return
	}

	appConfig, configPath, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	level := logger.ParseLevel(appConfig.Log.Level)
	if *debugMode {
		level = log.DebugLevel
	}
	logFile := logger.Setup(level, logger.FileOptions{
		Path:       appConfig.Log.File,
		MaxSizeMB:  appConfig.Log.MaxSizeMB,
		MaxBackups: appConfig.Log.MaxBackups,
	})

	cleanup := &shutdown{}
	cleanup.add(func() { logFile.Close() })
	sigHandler(cleanup)
	defer cleanup.run()

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		fatal(cleanup, "Failed to initialize path resolver: %v", err)
	}

	if *diag {
		for k, v := range pathResolver.DiagnosePathIssues(*dataDir) {
			fmt.Printf("%-20s %v\n", k, v)
		}
		return
	}

	dict := appConfig.Dict
	if *corpusFile != "" {
		dict.CorpusFile = *corpusFile
	}
	if *dataDir != "" {
		dict.CorpusDir = *dataDir
	}

	completer := suggest.NewCompleter(suggest.Options{
		Normalize:               dict.Normalize,
		FoldCase:                dict.FoldCase,
		MinFrequency:            uint64(max(dict.MinFreqThreshold, 0)),
		MinFrequencyShortPrefix: uint64(max(dict.MinFreqShortPrefix, 0)),
		CacheSize:               dict.CacheSize,
	})

	if err := loadDictionary(completer, pathResolver, dict); err != nil {
		fatal(cleanup, "Failed to load dictionary: %v", err)
	}

	var saver *dictionary.Saver
	if dict.SavePath != "" {
		saver = dictionary.NewSaver(completer, dict.SavePath, dict.SeparatorRune(), dict.AutosaveInterval())
		saver.Start()
		cleanup.add(func() {
			if n, err := saver.Stop(); err != nil {
				log.Errorf("Final save failed: %v", err)
			} else if n > 0 {
				log.Infof("Saved %d terms to %s", n, saver.Path())
			}
		})
	}

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.Debug("Input info:",
			"minPrefix", *minPrefix,
			"maxPrefix", *maxPrefix,
			"limit", *limit,
			"noFilter", *noFilter)

		inputHandler := cli.NewInputHandler(completer, *minPrefix, *maxPrefix, *limit, *noFilter)
		if err := inputHandler.Start(); err != nil {
			fatal(cleanup, "CLI error: %v", err)
		}
		return
	}

	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))
	srv := server.NewServer(completer, appConfig, configPath)
	srv.SetSaver(saver)

	showStartupInfo(completer, dict)

	if err := srv.Start(); err != nil {
		fatal(cleanup, "Server error: %v", err)
	}
}

// loadDictionary fills the completer from the saved snapshot, a single corpus
// file or every corpus in the data dir, in that order of preference. A data
// dir without corpora leaves the dictionary empty for AddWord to fill.
func loadDictionary(completer *suggest.Completer, pr *utils.PathResolver, dict config.DictConfig) error {
	opts := dictionary.LoadOptions{Separator: dict.SeparatorRune()}

	path := dict.CorpusFile
	if dict.SavePath != "" && utils.FileExists(dict.SavePath) {
		path = dict.SavePath
	}
	if path != "" {
		if !utils.FileExists(path) {
			path = pr.ResolveRelativePath(path)
		}
		stats, err := dictionary.LoadFile(path, completer, opts)
		if err != nil {
			return err
		}
		log.Debugf("Loaded %d terms from %s (%s) in %s", stats.Inserted, stats.Path, stats.Format, stats.Elapsed)
		return nil
	}

	dir, err := pr.GetDataDir(dict.CorpusDir)
	if err != nil {
		return err
	}
	summary, err := dictionary.NewLoader(dir, opts).LoadInto(completer)
	switch {
	case err != nil && len(summary.Files) == 0:
		log.Warnf("No corpus loaded (%v), running with empty dict...", err)
	case err != nil:
		log.Warnf("Some corpora failed to load: %v", err)
	default:
		log.Debugf("Loaded %d terms from %d files in %s", summary.Inserted, len(summary.Files), summary.Elapsed)
	}
	return nil
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ wordtrie ] top-k word completions from a pruning radix trie")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(completer *suggest.Completer, dict config.DictConfig) {
	l := logger.NewWithConfig(AppName, log.InfoLevel, false, false, log.TextFormatter)
	stats := completer.Stats()

	l.Infof("Version: %s", Version)
	l.Infof("Process ID: [ %d ]", os.Getpid())
	l.Info("dictionary", "terms", stats["totalWords"], "nodes", stats["nodes"])
	if dict.SavePath != "" {
		l.Info("saving", "path", dict.SavePath, "autosave", dict.AutosaveInterval())
	}
	l.Info("status: ready")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")
}
