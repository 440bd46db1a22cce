package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mickamy/weechat-tui/relay"
	"github.com/mickamy/weechat-tui/tui"
)

var version = "dev"

func main() {
	fs := flag.NewFlagSet("weechat-tui", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "weechat-tui — a terminal client for the WeeChat relay protocol\n\nUsage:\n  weechat-tui [flags] <host:port>\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n  WEECHAT_RELAY_PASSWORD    relay password (read by default via -password-env)\n")
	}

	passwordEnv := fs.String("password-env", "WEECHAT_RELAY_PASSWORD", "environment variable holding the relay password")
	showVersion := fs.Bool("version", false, "show version and exit")

	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("weechat-tui %s\n", version)
		return
	}

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}

	password := os.Getenv(*passwordEnv)
	if password == "" {
		fmt.Fprintf(os.Stderr, "weechat-tui: %s is not set\n", *passwordEnv)
		os.Exit(1)
	}

	if err := run(fs.Arg(0), password); err != nil {
		log.Fatal(err)
	}
}

func run(addr, password string) error {
	host, port, err := splitHostPort(addr)
	if err != nil {
		return fmt.Errorf("weechat-tui: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("connecting to %s:%d", host, port)
	session, err := relay.Connect(ctx, host, port, password)
	if err != nil {
		return fmt.Errorf("weechat-tui: connect: %w", err)
	}

	session.RequestBuffers()
	session.RequestHotlist()
	session.Send("", "sync")

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.New(sessionCtx, cancel, session)

	// bubbletea owns its own stdin-reader and terminal-resize-detection
	// goroutines (it delivers resizes as tea.WindowSizeMsg itself), so this
	// process spawns no separate SIGWINCH pipe: the renderer's own event
	// source already covers it, the same way the teacher's TUI never wires
	// terminal signals by hand either.
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(sessionCtx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("weechat-tui: %w", err)
	}
	return nil
}

func splitHostPort(addr string) (string, int, error) {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return "", 0, fmt.Errorf("address %q must be host:port", addr)
	}
	host := addr[:idx]
	port, err := strconv.Atoi(addr[idx+1:])
	if err != nil {
		return "", 0, fmt.Errorf("address %q has invalid port: %w", addr, err)
	}
	return host, port, nil
}
