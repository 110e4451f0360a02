package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/wordpieces"
	"github.com/npillmayer/wordpieces/conllx"
	"github.com/npillmayer/wordpieces/internal/config"
	"github.com/npillmayer/wordpieces/internal/pipeline"
	"github.com/npillmayer/wordpieces/textvocab"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	envFile   string
	activeCfg = config.DefaultConfig()

	// logOutput receives slog records and library traces.
	logOutput io.Writer = os.Stderr
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "wordpieces",
		Short:         "Segment corpus tokens into word pieces",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				EnvFile:    envFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(loaded.LogLevel)
			return nil
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Optional dotenv file (default .env if present)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newPrintCmd())
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger and routes the
// library traces to the same writer.
func setupLogger(levelStr string) {
	levelStr = strings.TrimSpace(levelStr)
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(levelStr)); err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))

	trace := gologadapter.New()
	trace.SetOutput(logOutput)
	trace.SetTraceLevel(traceLevel(lvl))
	tracing.SetTraceSelector(traceSelector{trace: trace})
}

// traceLevel maps a slog level onto the three schuko trace levels.
func traceLevel(lvl slog.Level) tracing.TraceLevel {
	switch {
	case lvl <= slog.LevelDebug:
		return tracing.LevelDebug
	case lvl <= slog.LevelInfo:
		return tracing.LevelInfo
	}
	return tracing.LevelError
}

// traceSelector hands out one shared tracer for every key.
type traceSelector struct {
	trace tracing.Trace
}

func (sel traceSelector) Select(string) tracing.Trace {
	return sel.trace
}

// openInputs loads the vocabulary and opens the corpus. Errors name the
// offending path.
func openInputs(cfg config.Config, vocabPath, corpusPath string) (*wordpieces.Vocabulary, *conllx.FileReader, error) {
	vocab, err := textvocab.LoadFile(vocabPath, textvocab.Options{
		Backend:   cfg.Backend(),
		SkipBlank: cfg.Vocabulary.SkipBlank,
	})
	if err != nil {
		return nil, nil, err
	}
	stats := vocab.Stats()
	slog.Debug("vocabulary loaded", "path", vocabPath, "backend", stats.Backend,
		"pieces", stats.Pieces, "max_piece_len", stats.MaxPieceLen)

	corpus, err := conllx.Open(corpusPath)
	if err != nil {
		return nil, nil, err
	}
	return vocab, corpus, nil
}

func pipelineOptions(cfg config.Config) pipeline.Options {
	return pipeline.Options{
		Workers:   cfg.Pipeline.Workers,
		BatchSize: cfg.Pipeline.BatchSize,
	}
}

// fileArgsCompletion completes the positional file arguments.
func fileArgsCompletion(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) >= 2 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveDefault
}
