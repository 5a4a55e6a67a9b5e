package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/xyproto/env/v2"

	"tinybasic/compiler/internal"
)

var errNoSource = errors.New("no source, use -i path or -e text")

type options struct {
	input       string
	expr        string
	output      string
	tokens      bool
	ast         bool
	build       bool
	run         bool
	cc          string
	bin         string
	forwardGoto bool
	repl        bool
	watch       bool
	verbose     bool
}

// parseFlags reads the command line. Defaults of the output paths, the c compiler and the switches come from the
// environment, so a shell profile can set them once.
func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("tinybasic", flag.ContinueOnError)
	fs.StringVar(&opts.input, "i", "", "the path of the tiny basic source file")
	fs.StringVar(&opts.expr, "e", "", "tiny basic source given inline, wins over -i")
	fs.StringVar(&opts.output, "o", env.Str("TINYBASIC_OUT", "out.c"), "the path of the generated c file")
	fs.BoolVar(&opts.tokens, "tokens", false, "print the tokens")
	fs.BoolVar(&opts.ast, "ast", false, "print the ast")
	fs.BoolVar(&opts.build, "build", false, "compile the generated c file with -cc")
	fs.BoolVar(&opts.run, "run", false, "build and run the program")
	fs.StringVar(&opts.cc, "cc", env.Str("TINYBASIC_CC", "cc"), "the c compiler")
	fs.StringVar(&opts.bin, "bin", env.Str("TINYBASIC_BIN", "a.out"), "the path of the built executable")
	fs.BoolVar(&opts.forwardGoto, "forward-goto", env.Bool("TINYBASIC_FORWARD_GOTO"),
		"allow GOTO to a label declared further down")
	fs.BoolVar(&opts.repl, "repl", false, "start an interactive session")
	fs.BoolVar(&opts.watch, "watch", false, "compile again whenever the -i file changes")
	fs.BoolVar(&opts.verbose, "v", env.Bool("TINYBASIC_VERBOSE"), "print progress")
	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if opts.input == "" && fs.NArg() > 0 {
		opts.input = fs.Arg(0)
	}
	return opts, nil
}

func (opts *options) compileOptions(logger internal.Logger) []internal.CompileOption {
	compileOpts := []internal.CompileOption{internal.WithLogger(logger)}
	if opts.forwardGoto {
		compileOpts = append(compileOpts, internal.WithParserOptions(internal.WithForwardLabels()))
	}
	return compileOpts
}

func newLogger(verbose bool, w io.Writer) internal.Logger {
	if !verbose {
		return func(string, ...interface{}) {}
	}
	return func(format string, args ...interface{}) {
		fmt.Fprintf(w, "[Compiler]: "+format+"\n", args...)
	}
}

func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "[Compiler]: %v\n", err)
}

// ensureNewline terminates the last statement, editors don't always do it.
func ensureNewline(source string) string {
	if source == "" || strings.HasSuffix(source, "\n") {
		return source
	}
	return source + "\n"
}

func readSource(opts *options) (string, error) {
	if opts.expr != "" {
		return ensureNewline(opts.expr), nil
	}
	if opts.input == "" {
		return "", errNoSource
	}
	data, err := os.ReadFile(opts.input)
	if err != nil {
		return "", err
	}
	return ensureNewline(string(data)), nil
}

// compileOnce translates the source to the -o file, then builds and runs it when asked to.
func compileOnce(ctx context.Context, opts *options, stdout, stderr io.Writer) error {
	source, err := readSource(opts)
	if err != nil {
		return err
	}
	logger := newLogger(opts.verbose, stderr)
	result, err := internal.CompileDetailed(source, opts.compileOptions(logger)...)
	if err != nil {
		return err
	}
	if opts.tokens {
		for _, token := range result.Tokens {
			fmt.Fprintln(stdout, token)
		}
	}
	if opts.ast {
		fmt.Fprint(stdout, internal.DumpProgram(result.Program))
	}
	err = os.WriteFile(opts.output, []byte(result.Code), 0644)
	if err != nil {
		return err
	}
	logger("write %d lines to %s", len(result.Lines), opts.output)
	if !opts.build && !opts.run {
		return nil
	}
	err = buildC(ctx, opts.cc, opts.output, opts.bin, stdout, stderr)
	if err != nil {
		return err
	}
	logger("built %s", opts.bin)
	if !opts.run {
		return nil
	}
	return runBinary(ctx, opts.bin, os.Stdin, stdout, stderr)
}

func run(ctx context.Context, opts *options) int {
	switch {
	case opts.repl:
		return runRepl(opts)
	case opts.watch:
		return runWatch(ctx, opts, os.Stdout, os.Stderr)
	}
	err := compileOnce(ctx, opts, os.Stdout, os.Stderr)
	if err != nil {
		reportError(os.Stderr, err)
		return 1
	}
	return 0
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, opts)
	stop()
	os.Exit(code)
}
