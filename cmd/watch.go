package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"galleryopt/internal"
)

var watchCmd = &cobra.Command{
	Use:   "watch [folder]",
	Short: "Optimize the folder, then again whenever new photos arrive",
	Long: `Run the optimize pipeline once, then watch the folder and run it again after
new or changed photos have been quiet for the debounce interval. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		runOnce := func() {
			started := time.Now()
			if err := s.newOptimizer().Run(ctx); err != nil {
				s.log.Error("optimize run failed", zap.Error(err))
				return
			}
			s.log.Info("optimize run finished", zap.Duration("took", time.Since(started)))
		}

		// An invalid root fails here, before any watching starts.
		if err := s.newOptimizer().Run(ctx); err != nil {
			return err
		}

		w, err := internal.NewWatcher(s.root, s.cfg.Extensions, s.cfg.ReservedDirs())
		if err != nil {
			return err
		}
		defer w.Close()

		go func() {
			for {
				select {
				case err := <-w.Errors():
					s.log.Warn("watcher error", zap.Error(err))
				case <-ctx.Done():
					return
				}
			}
		}()

		s.sink.Emit("watching " + s.root + " for new photos")
		internal.Debounce(ctx, w.Events(), s.cfg.WatchDebounce, runOnce)
		return nil
	},
}

func init() {
	watchCmd.Flags().Duration("watch-debounce", 2*time.Second, "Quiet time after the last change before a run starts")

	rootCmd.AddCommand(watchCmd)
}
