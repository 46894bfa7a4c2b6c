package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/1broseidon/winstate/internal/state"
)

func printStateUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  winstate state list   [--config PATH]")
	fmt.Fprintln(os.Stderr, "  winstate state show   LABEL [--config PATH]")
	fmt.Fprintln(os.Stderr, "  winstate state forget LABEL [--config PATH]")
	fmt.Fprintln(os.Stderr, "  winstate state clear  [--config PATH]")
	fmt.Fprintln(os.Stderr, "  winstate state path   [--config PATH]")
}

func runState(args []string) int {
	if len(args) < 1 {
		printStateUsage()
		return 2
	}
	sub := args[0]
	args = args[1:]

	// show/forget have a positional LABEL before the flags.
	var label string
	if sub == "show" || sub == "forget" {
		if len(args) < 1 || strings.HasPrefix(args[0], "-") {
			printStateUsage()
			return 2
		}
		label = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet("state "+sub, flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	cfg := loadConfigOrExit(*configPath)
	path, err := statePath(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot resolve state path: %v\n", err)
		return 1
	}

	switch sub {
	case "list":
		return stateList(path)
	case "show":
		return stateShow(path, label)
	case "forget":
		return stateForget(path, label)
	case "clear":
		return stateClear(path)
	case "path":
		fmt.Println(path)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown state subcommand: %s\n", sub)
		printStateUsage()
		return 2
	}
}

func stateList(path string) int {
	store, err := state.LoadFile(path)
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: %v (treating as empty)\n", err)
	}
	if store.Len() == 0 {
		fmt.Println("no windows tracked")
		return 0
	}

	entries := store.Snapshot()
	pretty := term.IsTerminal(int(os.Stdout.Fd()))
	if pretty {
		fmt.Printf("%-24s %-12s %-14s %s\n", "LABEL", "SIZE", "POSITION", "FLAGS")
	}
	for _, label := range store.Labels() {
		md := entries[label]
		if pretty {
			fmt.Printf("%-24s %-12s %-14s %s\n",
				label,
				fmt.Sprintf("%dx%d", md.Width, md.Height),
				fmt.Sprintf("(%d,%d)", md.X, md.Y),
				metadataFlags(md))
		} else {
			fmt.Printf("%s\t%dx%d\t%d,%d\t%s\n",
				label, md.Width, md.Height, md.X, md.Y, metadataFlags(md))
		}
	}
	return 0
}

func stateShow(path, label string) int {
	store, _ := state.LoadFile(path)
	md, ok := store.Get(label)
	if !ok {
		fmt.Fprintf(os.Stderr, "no persisted state for %q\n", label)
		return 1
	}
	fmt.Printf("label:      %s\n", label)
	fmt.Printf("size:       %dx%d\n", md.Width, md.Height)
	fmt.Printf("position:   (%d,%d)\n", md.X, md.Y)
	fmt.Printf("maximized:  %v\n", md.Maximized)
	fmt.Printf("visible:    %v\n", md.Visible)
	fmt.Printf("decorated:  %v\n", md.Decorated)
	fmt.Printf("fullscreen: %v\n", md.Fullscreen)
	return 0
}

func stateForget(path, label string) int {
	store, _ := state.LoadFile(path)
	if !store.Remove(label) {
		fmt.Fprintf(os.Stderr, "no persisted state for %q\n", label)
		return 1
	}
	if err := state.SaveFile(path, store); err != nil {
		fmt.Fprintf(os.Stderr, "failed to rewrite state file: %v\n", err)
		return 1
	}
	fmt.Printf("forgot %s\n", label)
	return 0
}

func stateClear(path string) int {
	store, _ := state.LoadFile(path)
	removed := store.Clear()
	if err := state.SaveFile(path, store); err != nil {
		fmt.Fprintf(os.Stderr, "failed to rewrite state file: %v\n", err)
		return 1
	}
	fmt.Printf("cleared %d entries\n", removed)
	return 0
}

func metadataFlags(md state.Metadata) string {
	var flags []string
	if md.Maximized {
		flags = append(flags, "maximized")
	}
	if md.Fullscreen {
		flags = append(flags, "fullscreen")
	}
	if !md.Visible {
		flags = append(flags, "hidden")
	}
	if !md.Decorated {
		flags = append(flags, "undecorated")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}
