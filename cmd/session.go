package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"galleryopt/internal"
)

// session holds everything one command invocation needs to build optimizers
// for a gallery root.
type session struct {
	root    string
	cfg     *internal.Config
	sink    internal.Sink
	trash   internal.Trash
	journal *internal.Journal
	log     *zap.Logger
	closers []func() error
}

func openSession(cmd *cobra.Command, dir string) (*session, error) {
	cfg, err := internal.LoadConfig(configFlag, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(verboseFlag, logFormatFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		root = dir
	}

	s := &session{root: root, cfg: cfg, log: logger}

	var sinks internal.MultiSink
	switch logFormatFlag {
	case "json":
		sinks = append(sinks, &zapSink{log: logger.Named("pipeline")})
	case "text":
		sinks = append(sinks, newConsoleSink(cmd.OutOrStdout(), noColorFlag))
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", logFormatFlag)
	}
	if cfg.LogFile != "" {
		fileSink, err := internal.NewFileSink(cfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		sinks = append(sinks, fileSink)
		s.closers = append(s.closers, fileSink.Close)
	}
	s.sink = sinks

	s.trash, err = internal.NewTrash(internal.TrashMode(cfg.Trash), filepath.Join(root, cfg.DuplicatesDir))
	if err != nil {
		s.Close()
		return nil, err
	}

	// The journal lives under the root; never create a root that is not there.
	if info, err := os.Stat(root); cfg.Journal && err == nil && info.IsDir() {
		j, err := internal.OpenJournal(filepath.Join(root, cfg.ReportsDir))
		if err != nil {
			s.Close()
			return nil, err
		}
		s.journal = j
		s.closers = append(s.closers, j.Close)
	}

	logger.Debug("session opened",
		zap.String("root", root),
		zap.String("trash", cfg.Trash),
		zap.String("pattern", cfg.Pattern),
		zap.Int("workers", cfg.WorkerCount()),
		zap.Bool("journal", s.journal != nil))

	return s, nil
}

// newOptimizer returns an optimizer with an empty working set.
func (s *session) newOptimizer() *internal.Optimizer {
	opt := internal.NewOptimizer(s.root, s.cfg, s.sink, s.trash)
	opt.SetJournal(s.journal)
	return opt
}

// finish emits the closing summary of a single-stage command.
func (s *session) finish(opt *internal.Optimizer) {
	for _, line := range opt.SummaryLines() {
		s.sink.Emit(line)
	}
	st := opt.Stats()
	s.log.Debug("command finished",
		zap.String("state", opt.State().String()),
		zap.Int("photos", st.Photos),
		zap.Int("errors", st.Errors))
}

func (s *session) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	_ = s.log.Sync()
	return first
}
