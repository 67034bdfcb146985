// Command vau is a REPL and script runner for the evaluation core,
// grounded on the teacher's cmd/msg/main.go: a liner-backed read loop with
// a persistent history file, colorized error output, and a script-running
// mode for non-interactive use. Flag parsing follows the pack's
// getopt-based CLI (yawuliu-ninja-build-go/ninja-go/ninja.go) rather than
// the teacher's stdlib flag.FlagSet, per the ambient-stack decision in
// SPEC_FULL.md.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
	"github.com/peterh/liner"

	vau "github.com/vaulisp/vau"
)

const (
	appName     = "vau"
	historyFile = ".vau_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("vau %s — Ctrl+C cancels input, Ctrl+D exits. Type :quit to exit.", vau.Version)

func main() {
	if len(os.Args) < 2 {
		os.Exit(cmdRepl(nil))
	}

	opts, optind, err := getopt.Getopts(os.Args[1:], "h")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	for _, o := range opts {
		if o.Option == 'h' {
			usage()
			os.Exit(0)
		}
	}
	rest := os.Args[1+optind:]

	if len(rest) == 0 {
		os.Exit(cmdRepl(nil))
	}

	switch rest[0] {
	case "run":
		os.Exit(cmdRun(rest[1:]))
	case "repl":
		os.Exit(cmdRepl(rest[1:]))
	case "version":
		fmt.Println(vau.Version)
	case "-h", "--help", "help":
		usage()
	default:
		os.Exit(cmdRun(rest))
	}
}

func usage() {
	fmt.Printf(`vau %s

Usage:
  %s run <file.vau>     Evaluate a script's top-level forms in order.
  %s repl               Start the interactive REPL.
  %s version            Print the compiled version.

`, vau.Version, appName, appName, appName)
}

func cmdRun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.vau>\n", appName)
		return 2
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, args[0], err)
		return 1
	}

	rt := vau.NewRuntime()
	result, err := rt.EvalSource(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString(err.Error()))
		return 1
	}
	_ = result
	return 0
}

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	rt := vau.NewRuntime()

	for {
		code, ok := readForm(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" {
			return 0
		}

		form, perr := vau.ParseOne(code)
		if perr != nil {
			fmt.Fprintln(os.Stderr, color.RedString(perr.Error()))
			continue
		}

		result, err := rt.EvalTerm(form)
		if err != nil {
			fmt.Fprintln(os.Stderr, color.RedString(err.Error()))
			continue
		}
		fmt.Println(color.BlueString(vau.Print(result)))
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readForm reads lines until liner.Prompt signals EOF/error or a complete
// top-level form has been entered, mirroring the teacher's parse-probe
// continuation loop but against this reader's own incompleteness check.
func readForm(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.TrimSpace(src) == "" {
			return src, true
		}
		if _, perr := vau.ParseOne(src); perr == nil {
			return src, true
		} else if isIncompleteParse(perr) {
			continue
		} else {
			return src, true
		}
	}
}

func isIncompleteParse(err error) bool {
	var lerr *vau.LexError
	if errors.As(err, &lerr) {
		return strings.Contains(lerr.Msg, "not terminated")
	}
	var perr *vau.ParseError
	if errors.As(err, &perr) {
		return strings.Contains(perr.Msg, "unterminated") || strings.Contains(perr.Msg, "end of input")
	}
	return false
}
