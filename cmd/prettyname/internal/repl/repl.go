// Package repl implements an interactive resolution prompt.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/broady/prettyname"
	"github.com/broady/prettyname/cmd/prettyname/internal/inspect"
)

const (
	historyFile = ".prettyname_history"
	prompt      = "name> "
)

const helpText = `Enter a reference to resolve it, or one of:
  :self <Type>      bind Self (":self" alone unbinds it)
  :type <binding>   print the declared type of a value
  :render <type>    print the canonical rendering of a type
  :help             show this text
  :quit             exit
`

type Cmd struct {
	inspect.IndexFlags `embed:""`

	Self string `help:"Type Self is initially bound to." short:"s"`
}

func (c *Cmd) Run(ctx context.Context, log *slog.Logger, w io.Writer) error {
	idx, err := c.Load(ctx, log)
	if err != nil {
		return err
	}
	s := &Session{Resolver: prettyname.NewResolver(idx), Self: c.Self}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(completer)

	hist := historyPath()
	if f, err := os.Open(hist); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(hist); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintf(w, "%d types, %d bindings declared. Type :help for commands.\n", len(idx.Types()), len(idx.Bindings()))
	for {
		line, err := ln.Prompt(s.prompt())
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		out, err := s.Eval(line)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(w, "error:", err)
			continue
		}
		if out != "" {
			fmt.Fprintln(w, out)
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}

var commands = []string{":self ", ":type ", ":render ", ":help", ":quit"}

func completer(line string) []string {
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}

// ErrQuit is returned by Eval for :quit.
var ErrQuit = errors.New("quit")

// Session is the state of a prompt: the resolver and the current Self
// binding. It does no I/O.
type Session struct {
	Resolver *prettyname.Resolver
	Self     string
}

func (s *Session) prompt() string {
	if s.Self == "" {
		return prompt
	}
	return "[" + s.Self + "] " + prompt
}

// Eval runs one input line and returns what to print.
func (s *Session) Eval(line string) (string, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case ":quit", ":q":
		return "", ErrQuit
	case ":help":
		return strings.TrimRight(helpText, "\n"), nil
	case ":self":
		s.Self = arg
		if arg == "" {
			return "Self unbound", nil
		}
		return "Self = " + arg, nil
	case ":type":
		if arg == "" {
			return "", errors.New(":type needs a binding name")
		}
		return s.Resolver.TypeOf(arg)
	case ":render":
		if arg == "" {
			return "", errors.New(":render needs a type")
		}
		return prettyname.RenderType(arg)
	}
	if strings.HasPrefix(cmd, ":") {
		return "", fmt.Errorf("unknown command %s; type :help", cmd)
	}

	var opts []prettyname.ResolveOption
	if s.Self != "" {
		opts = append(opts, prettyname.InScope(s.Self))
	}
	name, err := s.Resolver.ResolveName(strings.TrimSpace(line), opts...)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s  (%s)", name.Value, name.Kind), nil
}
