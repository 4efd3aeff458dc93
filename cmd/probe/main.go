package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/fastaccess/access"
)

func main() {
	var (
		layoutName  = flag.String("layout", "kv", "Root layout: kv, array, matrix, wit-point")
		count       = flag.Int("count", 50, "Element count of the root sequence")
		backend     = flag.String("backend", "bytes", "Block backend: bytes, wasm")
		maxChain    = flag.Int("max-chain", 0, "Maximum nodes per call site (0 = unbounded)")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Development logging")
	)
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()
	access.SetLogger(logger)

	if err := run(*layoutName, *count, *backend, *maxChain, *interactive, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(layoutName string, count int, backend string, maxChain int, interactive bool, args []string) error {
	ctx := context.Background()

	root, err := buildLayout(layoutName, count)
	if err != nil {
		return err
	}

	s, err := newSession(ctx, root, backend, access.Options{
		Logger:         access.Logger(),
		MaxChainLength: maxChain,
	})
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	if interactive {
		return runInteractive(s, layoutName, backend)
	}

	// A command on the command line runs once.
	if len(args) > 0 {
		out, err := s.exec(strings.Join(args, " "))
		if err != nil {
			return err
		}
		if out != "" {
			fmt.Println(out)
		}
		return nil
	}

	prompt := term.IsTerminal(int(os.Stdin.Fd()))
	return repl(s, os.Stdin, os.Stdout, prompt)
}

// repl executes one command per line. Errors are printed and do not stop the loop.
func repl(s *session, in io.Reader, out io.Writer, prompt bool) error {
	if prompt {
		fmt.Fprintf(out, "layout %s, %d bytes. Type help for commands.\n", s.acc.Layout(), s.size)
	}

	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}

		result, err := s.exec(line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if result != "" {
			fmt.Fprintln(out, result)
		}
	}
	return scanner.Err()
}
