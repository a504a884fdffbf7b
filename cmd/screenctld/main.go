// Command screenctld is the screencontrol agent daemon (spec.md §6): it
// loads configuration, opens the audit trail, wires components A-M via
// internal/agent, and serves the loopback HTTP API and (when configured)
// the control-server WebSocket connection until a signal or fatal error
// shuts it down.
//
// Flag handling follows the teacher's cmd/acp-server/main.go: flag.*
// variables parsed once in main, no subcommand tree (that lives in
// cmd/screenctl instead).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/screenctl/screenctld/internal/agent"
	"github.com/screenctl/screenctld/internal/apiclient"
	"github.com/screenctl/screenctld/internal/audit"
	"github.com/screenctl/screenctld/internal/config"
	"github.com/screenctl/screenctld/internal/console"
	"github.com/screenctl/screenctld/internal/logging"
	"github.com/screenctl/screenctld/internal/svcinstall"
)

// version is stamped at release build time via -ldflags; "dev" otherwise.
var version = "dev"

func main() {
	var (
		daemon    = flag.Bool("daemon", false, "daemon mode: JSON-formatted log output (the process does not detach from its terminal)")
		port      = flag.Int("port", 0, "override the configured HTTP API port")
		cfgPath   = flag.String("config", "", "path to the config.json file")
		logDir    = flag.String("log", "", "directory to write rotated log files to")
		verbose   = flag.Bool("verbose", false, "enable debug-level logging")
		showVer   = flag.Bool("version", false, "print the agent version and exit")
		install   = flag.Bool("install", false, "register screenctld with the platform service manager and exit")
		uninstall = flag.Bool("uninstall", false, "remove screenctld from the platform service manager and exit")
		consoleUI = flag.Bool("console", false, "launch the operator TUI dashboard alongside the daemon")
	)
	flag.Parse()

	if *showVer {
		fmt.Println(version)
		return
	}

	if *install {
		if err := svcinstall.Install(); err != nil {
			fmt.Fprintf(os.Stderr, "install: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("screenctld registered with the platform service manager")
		return
	}
	if *uninstall {
		if err := svcinstall.Uninstall(); err != nil {
			fmt.Fprintf(os.Stderr, "uninstall: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("screenctld removed from the platform service manager")
		return
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		if err := cfg.Update(func(c *config.Config) { c.HTTPPort = *port }); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
	}

	snapshot := cfg.Get()
	dir := *logDir
	if dir == "" {
		dir = snapshot.LogDir
	}
	log, err := logging.Init(logging.Options{
		Dir:       dir,
		Debug:     *verbose || snapshot.Debug,
		JSON:      *daemon,
		Component: "screenctld",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	auditPath := snapshot.AuditDBPath
	if auditPath == "" {
		auditPath = config.DefaultAuditDBPath()
	}
	auditStore, err := audit.Open(auditPath)
	if err != nil {
		log.Error("failed to open audit database", "error", err)
		os.Exit(1)
	}

	a := agent.New(cfg, auditStore, log, version)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *consoleUI {
		go func() {
			_ = console.Run(apiclient.New(cfg.Get().HTTPPort))
		}()
	}

	log.Info("starting screenctld", "version", version, "httpPort", cfg.Get().HTTPPort)
	if err := a.Run(ctx); err != nil {
		log.Error("agent exited with error", "error", err)
		os.Exit(1)
	}
}
