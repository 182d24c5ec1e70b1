package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	var (
		timeout   time.Duration
		trace     bool
		stepLimit int
		memSize   int
		depth     int
		base      int
		dump      bool
		noStdin   bool
	)
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.IntVar(&stepLimit, "steps", 0, "limit word dispatches per token")
	flag.IntVar(&memSize, "mem", defaultMemSize, "memory bank size in cells")
	flag.IntVar(&depth, "stack", defaultStackDepth, "data and return stack depth; the return stack is capped at 65536")
	flag.IntVar(&base, "base", defaultBase, "numeral base, 2 through 36")
	flag.BoolVar(&dump, "dump", false, "dump machine state after the run")
	flag.BoolVar(&noStdin, "no-stdin", false, "only read the named files")
	flag.Parse()

	level := zerolog.InfoLevel
	if trace {
		level = zerolog.TraceLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	opts := []VMOption{
		WithMemSize(memSize),
		WithStackDepth(depth),
		WithReturnDepth(depth),
		WithBase(base),
		WithStepLimit(stepLimit),
	}
	if trace {
		opts = append(opts, WithLogf(func(mess string, args ...interface{}) {
			log.Trace().Msgf(mess, args...)
		}))
	}

	for _, name := range flag.Args() {
		f, err := os.Open(name)
		if err != nil {
			log.Error().Err(err).Msg("unable to open input")
			return 1
		}
		opts = append(opts, WithInput(f))
	}

	var out io.Writer = os.Stdout
	if !noStdin {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			pr, err := newPromptReader()
			if err != nil {
				log.Error().Err(err).Msg("unable to start line editor")
				return 1
			}
			opts = append(opts, WithInput(pr))
			out = pr.rl.Stdout()
		} else {
			opts = append(opts, WithInput(os.Stdin))
		}
	}
	opts = append(opts, WithOutput(out))

	vm := New(opts...)
	defer vm.Close()

	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	err := vm.Run(ctx)
	if dump {
		vm.Dump(os.Stderr)
	}
	if err != nil {
		log.Error().Msgf("%+v", err)
		return 1
	}
	return 0
}

// promptReader reads lines from an interactive terminal, with history.
type promptReader struct {
	rl  *readline.Instance
	buf []byte
}

func newPromptReader() (*promptReader, error) {
	cfg := &readline.Config{
		Prompt:          "morth> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "bye",
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = filepath.Join(home, ".morth_history")
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}
	return &promptReader{rl: rl}, nil
}

func (pr *promptReader) Name() string { return "<stdin>" }

// Read returns at most one line per underlying prompt; an interrupt
// abandons the line being edited.
func (pr *promptReader) Read(p []byte) (int, error) {
	for len(pr.buf) == 0 {
		line, err := pr.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err != nil {
			return 0, err
		}
		pr.buf = append(append(pr.buf[:0], line...), '\n')
	}
	n := copy(p, pr.buf)
	pr.buf = pr.buf[n:]
	return n, nil
}

func (pr *promptReader) Close() error { return pr.rl.Close() }
