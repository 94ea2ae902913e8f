package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yxnxs/shade"
	"github.com/yxnxs/shade/internal/config"
	"github.com/yxnxs/shade/internal/daemon"
	"github.com/yxnxs/shade/internal/ipc"
	"github.com/yxnxs/shade/internal/tui"
)

// version is stamped at release time via -ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: shade daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: shade daemon")
			os.Exit(2)
		}
		runDaemon()
	case "set":
		os.Exit(runSet(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "version":
		fmt.Println("shade " + version)
		os.Exit(0)
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
	fmt.Fprintln(w, "Usage: shade <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  set                 Set the root background to a color")
	fmt.Fprintln(w, "  status              Show background ownership and daemon status")
	fmt.Fprintln(w, "  daemon              Hold background ownership and serve IPC (foreground)")
	fmt.Fprintln(w, "  tui                 Open the interactive color picker")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  version             Print version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'shade <command> --help' for command-specific options.")
}

// cliLogger keeps one-shot commands quiet unless something goes wrong.
func cliLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

func parseScaling(s string) (shade.ScalingMethod, error) {
	switch s {
	case "center":
		return shade.ScalingCenter, nil
	case "fill":
		return shade.ScalingFill, nil
	case "max":
		return shade.ScalingMax, nil
	case "scale":
		return shade.ScalingScale, nil
	case "tile":
		return shade.ScalingTile, nil
	default:
		return 0, fmt.Errorf("unknown scaling mode %q (want center, fill, max, scale or tile)", s)
	}
}

func runSet(args []string) int {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: shade set --color COLOR [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Fill the root background with a color. Routes through the daemon when")
		fmt.Fprintln(os.Stderr, "one is running, otherwise claims the background directly.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	color := fs.String("color", "", "Fill color (hex, e.g. '#282c34')")
	output := fs.String("output", "", "Restrict the fill to one output (RandR name)")
	fresh := fs.Bool("fresh", false, "Discard the previous background instead of adopting it")
	imagePath := fs.String("image", "", "Image file to display (not supported yet)")
	scaling := fs.String("scaling", "fill", "Image scaling mode: center, fill, max, scale, tile")
	display := fs.String("display", "", "X display to connect to (default: $DISPLAY)")
	screen := fs.Int("screen", -1, "Screen index (default: the display string's screen)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "set takes no positional arguments")
		fs.Usage()
		return 2
	}
	if *color == "" && *imagePath == "" {
		fmt.Fprintln(os.Stderr, "set requires --color or --image")
		fs.Usage()
		return 2
	}

	var fill shade.Pixel
	if *color != "" {
		px, err := shade.ParseColor(*color)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fill = px
	}

	// A running daemon owns the background; route plain color fills
	// through it so the two processes don't evict each other.
	if *imagePath == "" && !*fresh && *display == "" && *screen < 0 {
		client := ipc.NewClient()
		if client.Ping() == nil {
			if err := client.SetColor(fill.Hex(), *output); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			return 0
		}
	}

	method := shade.KeepExisting()
	if *fresh {
		method = shade.MakeNew()
	}
	if *imagePath != "" {
		sm, err := parseScaling(*scaling)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		method = shade.LoadFromFile(sm, *imagePath)
	}

	loader := &shade.Loader{Display: *display, Screen: *screen, Logger: cliLogger()}
	bg, err := loader.Load(method)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *color != "" {
		if *output != "" {
			rect, err := outputRect(bg, *output)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			bg.FillRect(rect, fill)
		} else {
			bg.Fill(fill)
		}
		if err := bg.Flush(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	return 0
}

func outputRect(bg *shade.Background, name string) (image.Rectangle, error) {
	outputs, err := bg.Outputs()
	if err != nil {
		return image.Rectangle{}, err
	}
	for _, o := range outputs {
		if o.Name == name {
			return o.Rect, nil
		}
	}
	return image.Rectangle{}, fmt.Errorf("unknown output %q", name)
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: shade status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show who owns the root background, and daemon status when one is running.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output status as JSON")
	display := fs.String("display", "", "X display to connect to (default: $DISPLAY)")
	screen := fs.Int("screen", -1, "Screen index (default: the display string's screen)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	loader := &shade.Loader{Display: *display, Screen: *screen}
	own, err := loader.Inspect()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var daemonStatus *ipc.StatusData
	if s, err := ipc.NewClient().GetStatus(); err == nil {
		daemonStatus = s
	}

	if *jsonOut {
		out := statusJSON{
			Screen:     own.Screen,
			Width:      own.Width,
			Height:     own.Height,
			Depth:      own.Depth,
			RootPixmap: own.RootPixmap,
			ESetRoot:   own.ESetRoot,
			Owned:      own.Owned(),
			Consistent: own.Consistent(),
			Daemon:     daemonStatus,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	fmt.Printf("screen:           %d (%dx%d, depth %d)\n", own.Screen, own.Width, own.Height, own.Depth)
	fmt.Printf("_XROOTPMAP_ID:    %s\n", formatPixmap(own.RootPixmap))
	fmt.Printf("ESETROOT_PMAP_ID: %s\n", formatPixmap(own.ESetRoot))
	fmt.Printf("ownership:        %s\n", describeOwnership(own))
	if daemonStatus != nil {
		fmt.Printf("daemon:           running (uptime %ds, pixmap 0x%x)\n",
			daemonStatus.UptimeSeconds, daemonStatus.Pixmap)
		if daemonStatus.Color != "" {
			fmt.Printf("daemon_color:     %s\n", daemonStatus.Color)
		}
	} else {
		fmt.Println("daemon:           not running")
	}
	return 0
}

type statusJSON struct {
	Screen     int             `json:"screen"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Depth      int             `json:"depth"`
	RootPixmap uint32          `json:"xrootpmap_id"`
	ESetRoot   uint32          `json:"esetroot_pmap_id"`
	Owned      bool            `json:"owned"`
	Consistent bool            `json:"consistent"`
	Daemon     *ipc.StatusData `json:"daemon,omitempty"`
}

func formatPixmap(id uint32) string {
	if id == 0 {
		return "(unset)"
	}
	return fmt.Sprintf("0x%x", id)
}

func describeOwnership(own *shade.Ownership) string {
	switch {
	case own.Consistent():
		return "owned (both atoms agree)"
	case own.Owned():
		return "inconsistent (atoms disagree)"
	default:
		return "unowned"
	}
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	display := fs.String("display", "", "X display to connect to (default: $DISPLAY)")
	screen := fs.Int("screen", -1, "Screen index (default: the display string's screen)")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: shade tui")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive color picker for the root background. Applies through the")
		fmt.Fprintln(os.Stderr, "daemon when one is running, otherwise claims the background directly.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  tab, 1/2    Switch between palette and custom tabs")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓    Navigate")
		fmt.Fprintln(os.Stderr, "  Enter, a    Apply the selected color")
		fmt.Fprintln(os.Stderr, "  /           Filter palette colors")
		fmt.Fprintln(os.Stderr, "  h/l, [/]    Adjust the selected channel (custom tab)")
		fmt.Fprintln(os.Stderr, "  d/b         Dim / brighten (custom tab)")
		fmt.Fprintln(os.Stderr, "  e           Enter a hex value (custom tab)")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C   Quit")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	var applier tui.Applier
	daemonConnected := false

	client := ipc.NewClient()
	if err := client.Ping(); err == nil {
		applier = daemonApplier{client: client}
		daemonConnected = true
	} else {
		loader := &shade.Loader{Display: *display, Screen: *screen, Logger: cliLogger()}
		bg, err := loader.Load(shade.KeepExisting())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		applier = directApplier{bg: bg}
	}

	if err := tui.Run(applier, daemonConnected); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// daemonApplier routes picked colors through the running daemon.
type daemonApplier struct {
	client *ipc.Client
}

func (a daemonApplier) Apply(color shade.Pixel) error {
	return a.client.SetColor(color.Hex(), "")
}

// directApplier paints a locally loaded handle.
type directApplier struct {
	bg *shade.Background
}

func (a directApplier) Apply(color shade.Pixel) error {
	a.bg.Fill(color)
	return a.bg.Flush()
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  shade config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  shade config print [--path PATH] [--defaults]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/shade/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var err error
		if *path == "" {
			_, err = config.Load()
		} else {
			_, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/shade/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var cfg *config.Config
		if *printDefaults {
			cfg = config.DefaultConfig()
		} else {
			var err error
			if *path == "" {
				cfg, err = config.Load()
			} else {
				cfg, err = config.LoadFromPath(*path)
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func runDaemon() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (open: %s, log level: %s)", cfg.Open, cfg.LogLevel)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	// Claim the root background
	loader := &shade.Loader{Display: cfg.Display, Screen: cfg.Screen, Logger: logger}
	bg, err := loader.Load(cfg.OpenMethod())
	if err != nil {
		log.Fatalf("Failed to claim the root background: %v", err)
	}

	if color, ok := cfg.FillColor(); ok {
		bg.Fill(color)
		if err := bg.Flush(); err != nil {
			log.Printf("Warning: failed to apply configured color: %v", err)
		} else {
			log.Printf("Applied configured color %s", color.Hex())
		}
	}

	log.Println("shade daemon started successfully")

	// Start IPC server
	ipcServer, err := ipc.NewServer(bg, logger)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	// Start ownership watchdog when configured
	watchdogCancel := func() {}
	if cfg.WatchInterval > 0 {
		watchdog := daemon.NewWatchdog(daemon.WatchdogConfig{
			Interval: time.Duration(cfg.WatchInterval) * time.Second,
			Logger:   logger,
		}, uint32(bg.Pixmap()), bg.CurrentOwners, bg.Reassert)

		var watchdogCtx context.Context
		watchdogCtx, watchdogCancel = context.WithCancel(context.Background())
		go watchdog.Run(watchdogCtx)
	}
	defer watchdogCancel()

	// Handle signals: SIGHUP reloads config, SIGINT/SIGTERM shut down
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	for sig := range sigCh {
		switch sig {
		case syscall.SIGHUP:
			log.Println("Received SIGHUP, reloading config...")
			newCfg, err := config.Load()
			if err != nil {
				log.Printf("Config reload failed: %v", err)
				continue
			}
			if color, ok := newCfg.FillColor(); ok {
				bg.Fill(color)
				if err := bg.Flush(); err != nil {
					log.Printf("Failed to apply configured color: %v", err)
					continue
				}
			}
			log.Println("Config reloaded successfully")

		case os.Interrupt, syscall.SIGTERM:
			log.Println("Shutting down shade daemon...")
			watchdogCancel()
			ipcServer.Stop()
			os.Exit(0)
		}
	}
}
