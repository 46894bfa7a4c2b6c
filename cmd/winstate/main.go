package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/1broseidon/winstate/internal/appdir"
	"github.com/1broseidon/winstate/internal/config"
	"github.com/1broseidon/winstate/internal/daemon"
	"github.com/1broseidon/winstate/internal/mcp"
	"github.com/1broseidon/winstate/internal/state"
	"github.com/1broseidon/winstate/internal/tui"
	"github.com/1broseidon/winstate/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "state":
		os.Exit(runState(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winstate <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Track window geometry on the current display (foreground)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  state list          List persisted window states")
	fmt.Fprintln(w, "  state show          Show one window's persisted state")
	fmt.Fprintln(w, "  state forget        Discard one window's persisted state")
	fmt.Fprintln(w, "  state clear         Discard all persisted state")
	fmt.Fprintln(w, "  state path          Print the state file path")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print effective configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "  tui                 Open interactive state browser")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  help                Show this help")
}

// statePath resolves the state file location the daemon uses, honoring
// the state_dir override from config.
func statePath(cfg *config.Config) (string, error) {
	dir := cfg.StateDir
	if dir == "" {
		var err error
		dir, err = appdir.Dir()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, state.FileName), nil
}

func loadConfigOrExit(path string) *config.Config {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromPath(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file (default ~/.config/winstate/config.yaml)")
	fs.Parse(args)

	cfg := loadConfigOrExit(*configPath)

	level, err := cfg.SlogLevel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	conn, err := x11.NewConnection(x11.ConnectOptions{
		Display:    cfg.Display,
		Xauthority: cfg.Xauthority,
	})
	if err != nil {
		logger.Error("failed to connect to X server", "error", err)
		return 1
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := newApp(conn, cfg, logger)
	d := daemon.New(app, cfg, logger)
	if err := d.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("daemon stopped", "error", err)
		return 1
	}
	logger.Info("daemon exiting", "tracked", d.Manager().Store().Len())
	return 0
}

// newApp wires the state_dir override: when set, the daemon persists
// to that directory instead of the default data dir.
func newApp(conn *x11.Connection, cfg *config.Config, logger *slog.Logger) *overrideDirApp {
	return &overrideDirApp{App: x11.NewApp(conn, logger), stateDir: cfg.StateDir}
}

// overrideDirApp redirects DataDir to a configured directory.
type overrideDirApp struct {
	*x11.App
	stateDir string
}

func (a *overrideDirApp) DataDir() (string, bool) {
	if a.stateDir != "" {
		return a.stateDir, true
	}
	return a.App.DataDir()
}

func runConfig(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: winstate config <validate|print> [--config PATH]")
		return 2
	}
	sub := args[0]

	fs := flag.NewFlagSet("config "+sub, flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args[1:])

	switch sub {
	case "validate":
		loadConfigOrExit(*configPath)
		fmt.Println("config OK")
		return 0
	case "print":
		cfg := loadConfigOrExit(*configPath)
		fmt.Printf("auto_show: %v\n", cfg.AutoShow)
		fmt.Printf("blacklist: %v\n", cfg.Blacklist)
		fmt.Printf("state_dir: %q\n", cfg.StateDir)
		fmt.Printf("save_interval: %s\n", cfg.SaveInterval)
		fmt.Printf("log_level: %s\n", cfg.LogLevel)
		fmt.Printf("display: %q\n", cfg.Display)
		fmt.Printf("xauthority: %q\n", cfg.Xauthority)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", sub)
		return 2
	}
}

func runMCP(args []string) int {
	if len(args) < 1 || args[0] != "serve" {
		fmt.Fprintln(os.Stderr, "Usage: winstate mcp serve [--config PATH]")
		return 2
	}

	fs := flag.NewFlagSet("mcp serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args[1:])

	cfg := loadConfigOrExit(*configPath)
	path, err := statePath(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot resolve state path: %v\n", err)
		return 1
	}

	server, err := mcp.NewServer(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mcp: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "mcp: %v\n", err)
		return 1
	}
	return 0
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	cfg := loadConfigOrExit(*configPath)
	path, err := statePath(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot resolve state path: %v\n", err)
		return 1
	}
	if err := tui.Run(path); err != nil {
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
		return 1
	}
	return 0
}
