// Planforge: Planning Tree MCP Server
//
// An MCP server that gives AI coding agents a structured project plan:
// a project → milestone → epic → story tree with derived statuses,
// self-contained context packages, and integrity validation.
//
// Usage:
//
//	planforge serve                       # Start MCP server (stdio transport)
//	planforge serve --root /path/to/proj  # Serve a specific project root
//	planforge serve --backend sqlite      # Keep the tree in a SQLite file
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	pfserver "github.com/planforge/planforge/internal/server"
	"github.com/planforge/planforge/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("planforge v%s\n", pfserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	root := fs.String("root", "", "project root directory (default: walk up from cwd)")
	backend := fs.String("backend", "file", "storage backend: 'file' or 'sqlite'")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, cleanup, err := openStore(*root, *backend)
	if err != nil {
		return err
	}
	defer cleanup()

	applyConfig(st)

	s := pfserver.New(st)

	// Graceful shutdown on interrupt. The stdio transport ends when
	// stdin closes; the signal handler covers direct termination.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cleanup()
		os.Exit(0)
	}()

	return server.ServeStdio(s)
}

// openStore builds the selected storage backend rooted at dir.
// An empty dir means: walk up from the working directory looking for an
// existing planning tree, falling back to the working directory itself
// so plan_init can create one.
func openStore(dir, backend string) (store.Store, func(), error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, nil, fmt.Errorf("resolving working directory: %w", err)
		}
		dir = findProjectRoot(cwd)
	}

	switch backend {
	case "file":
		// The tree lives in a planforge/ subdirectory of the project
		// root, matching what findProjectRoot probes for.
		return store.NewFileStore(filepath.Join(dir, "planforge")), func() {}, nil
	case "sqlite":
		st, err := store.NewSQLiteStore(filepath.Join(dir, "planforge.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return st, func() { _ = st.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want 'file' or 'sqlite')", backend)
	}
}

// findProjectRoot walks up from start looking for a directory that holds
// an initialized planning tree. Returns start when none is found.
func findProjectRoot(start string) string {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "planforge", "project.json")); err == nil {
			return dir
		}
		if _, err := os.Stat(filepath.Join(dir, "planforge.db")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

// applyConfig reads the tree's config, if present, and applies the
// settings that affect the store itself. Missing or unreadable config
// just leaves the defaults.
func applyConfig(st store.Store) {
	cfg, err := store.LoadConfig(st)
	if err != nil || cfg == nil {
		return
	}
	if cfg.LockTimeoutMinutes > 0 {
		st.SetLockTimeout(time.Duration(cfg.LockTimeoutMinutes) * time.Minute)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Planforge v%s — Planning Tree MCP Server

Usage:
  planforge serve [--root DIR] [--backend file|sqlite]
      Start the MCP server on stdio.

Flags for serve:
  --root DIR        Project root (default: walk up from the working directory)
  --backend NAME    'file' keeps the tree under DIR/planforge/ (default);
                    'sqlite' keeps it in DIR/planforge.db

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "planforge": {
        "command": "planforge",
        "args": ["serve"]
      }
    }
  }
`, pfserver.Version)
}
