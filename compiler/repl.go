package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"tinybasic/compiler/internal"
)

const (
	historyFile = ".tinybasic_history"
	promptMain  = "basic> "
	promptCont  = " ...> "
	banner      = "tiny basic. :c shows the c code, :reset starts over, :quit exits."
)

// session is the program typed so far. A chunk is kept only when the whole program still compiles, so the session
// always has a valid c translation.
type session struct {
	chunks      []string
	compileOpts []internal.CompileOption
}

func (s *session) source(extra string) string {
	var builder strings.Builder
	for _, chunk := range s.chunks {
		builder.WriteString(chunk)
	}
	builder.WriteString(extra)
	return builder.String()
}

// check compiles chunk after the session without keeping it.
func (s *session) check(chunk string) error {
	_, err := internal.Compile(s.source(ensureNewline(chunk)), s.compileOpts...)
	return err
}

func (s *session) add(chunk string) error {
	chunk = ensureNewline(chunk)
	_, err := internal.Compile(s.source(chunk), s.compileOpts...)
	if err != nil {
		return err
	}
	s.chunks = append(s.chunks, chunk)
	return nil
}

func (s *session) code() (string, error) {
	return internal.Compile(s.source(""), s.compileOpts...)
}

func (s *session) reset() {
	s.chunks = nil
}

func handleReplCommand(s *session, line string, w io.Writer) (exit bool) {
	switch strings.ToLower(line) {
	case ":quit":
		return true
	case ":c":
		code, err := s.code()
		if err != nil {
			reportError(w, err)
			return false
		}
		fmt.Fprint(w, code)
	case ":reset":
		s.reset()
		fmt.Fprintln(w, "session cleared")
	default:
		fmt.Fprintln(w, "unknown command. Type :quit to exit.")
	}
	return false
}

func runRepl(opts *options) int {
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

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := &session{compileOpts: opts.compileOptions(newLogger(false, nil))}
	for {
		chunk, ok := readUntilComplete(ln, s, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}
		line := strings.TrimSpace(chunk)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if handleReplCommand(s, line, os.Stdout) {
				return 0
			}
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(chunk, "\n", " "))
		err := s.add(chunk)
		if err != nil {
			reportError(os.Stderr, err)
		}
	}
}

// readUntilComplete keeps reading lines while the session plus the lines read so far only lacks its end, an IF or
// WHILE still waiting for ENDIF or ENDWHILE.
func readUntilComplete(ln *liner.State, s *session, prompt, cont string) (string, bool) {
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

		if b.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if internal.IsIncomplete(s.check(src)) {
			continue
		}
		return src, true
	}
}
