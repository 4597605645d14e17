package commands

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"git.home.luguber.info/inful/fsblog/internal/blog"
	"git.home.luguber.info/inful/fsblog/internal/config"
	"git.home.luguber.info/inful/fsblog/internal/logfields"
	"git.home.luguber.info/inful/fsblog/internal/observability"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"fsblog.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve   ServeCmd   `cmd:"" help:"Serve the blog over HTTP"`
	CGI     CGICmd     `cmd:"" name:"cgi" help:"Answer a single CGI request from the environment"`
	Render  RenderCmd  `cmd:"" help:"Render one request path to stdout as a CGI response"`
	Index   IndexCmd   `cmd:"" help:"List every entity found in the data directory"`
	Show    ShowCmd    `cmd:"" help:"Preview a post or page in the terminal"`
	Plugins PluginsCmd `cmd:"" help:"List content transforms and the configured pipeline"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(observability.NewLogger(os.Stderr, level, string(config.LogFormatText)))
	return nil
}

// LoadConfig reads the configuration file and reconfigures logging from it.
// A missing file at the default path falls back to built-in defaults.
func (c *CLI) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		if c.Config != config.DefaultPath {
			return nil, err
		}
		if _, statErr := os.Stat(c.Config); !errors.Is(statErr, fs.ErrNotExist) {
			return nil, err
		}
		slog.Debug("No configuration file, using defaults", logfields.File(c.Config))
		cfg = config.Default()
	}

	level := cfg.Logging.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(observability.NewLogger(os.Stderr, level, string(cfg.Logging.Format)))
	return cfg, nil
}

// newService loads the configuration and builds the blog service.
func (c *CLI) newService() (*blog.Service, error) {
	cfg, err := c.LoadConfig()
	if err != nil {
		return nil, err
	}
	return blog.NewService(cfg)
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
