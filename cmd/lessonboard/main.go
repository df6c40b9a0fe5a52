package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/example/lessonboard/internal/board"
	"github.com/example/lessonboard/internal/config"
	"github.com/example/lessonboard/internal/dictation"
	"github.com/example/lessonboard/internal/notify"
	"github.com/example/lessonboard/internal/store"
	"github.com/example/lessonboard/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs       *flag.FlagSet
	program  string
	notifier *notify.Notifier
	config   *config.Config
	stdout   io.Writer

	configPath      string
	lesson          string
	storePath       string
	themeName       string
	exportAlerts    bool
	copyAlerts      bool
	dictationAlerts bool
	verbose         bool

	activeTheme *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	path := configPathOverride
	if v := os.Getenv("LESSONBOARD_CONFIG"); v != "" {
		path = v
	}
	loader := config.NewLoader(version, path)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	r := newRootWith(cfg)
	r.configPath = path
	return r
}

func newRootWith(cfg *config.Config) *root {
	r := &root{
		fs:       flag.NewFlagSet("lessonboard", flag.ContinueOnError),
		program:  "lessonboard",
		notifier: notify.New(notify.LoadPreferences()),
		config:   cfg,
		stdout:   os.Stdout,
	}
	// Precedence: CLI > Env > Config > Default. The environment has already
	// been folded into cfg by the loader, so cfg supplies the flag defaults.
	r.fs.StringVar(&r.lesson, "lesson", cfg.Lesson, "lesson whose pages are used")
	r.fs.StringVar(&r.storePath, "store", cfg.StorePath(), "page database path (:memory: keeps pages in memory)")
	r.fs.StringVar(&r.themeName, "theme", cfg.Theme, "color theme to use (default, dark or a theme file)")
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting a page")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.dictationAlerts, "notify-dictation", cfg.Notify.Dictation, "show a desktop notification when dictation fails")
	r.fs.BoolVar(&r.verbose, "v", false, "log diagnostics to stderr")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	r.notifier.Enable(notify.EventExport, r.exportAlerts)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	r.notifier.Enable(notify.EventDictation, r.dictationAlerts)
	if r.verbose {
		board.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "board":
		cmd, err = parseBoardCmd(subArgs, r)
	case "replay":
		cmd, err = parseReplayCmd(subArgs, r)
	case "export":
		cmd, err = parseExportCmd(subArgs, r)
	case "pages":
		cmd, err = parsePagesCmd(subArgs, r)
	case "delete":
		cmd, err = parseDeleteCmd(subArgs, r)
	case "serve":
		cmd, err = parseServeCmd(subArgs, r)
	case "keys":
		cmd = &keysCmd{root: r}
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// resolveTheme picks the theme named on the command line, in the
// environment or in the config, in that order.
func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if cfgTheme, ok := r.config.Themes[name]; ok {
		return cfgTheme
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

func (r *root) openStore() (*store.Store, error) {
	st, err := store.Open(r.storePath)
	if err != nil {
		return nil, fmt.Errorf("open page store: %w", err)
	}
	return st, nil
}

// matcher builds the voice command matcher: the built-in phrases plus the
// [voice] section of the config.
func (r *root) matcher() (*dictation.Matcher, error) {
	phrases := dictation.DefaultPhrases()
	for phrase, action := range r.config.Voice {
		cmd, err := dictation.ParseCommand(action)
		if err != nil {
			return nil, fmt.Errorf("voice phrase %q: %w", phrase, err)
		}
		phrases[phrase] = cmd
	}
	return dictation.NewMatcher(phrases), nil
}

func (r *root) subProgram(name string) string {
	return strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
