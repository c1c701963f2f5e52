package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [folder]",
	Short: "Remove duplicates, rename and organize photos by date",
	Long: `Run the whole pipeline over a folder: scan and hash every photo, send exact
duplicates to the trash, rename the rest with the naming pattern, move them
into YYYY/MM - Month/DD - Weekday folders and write a final CSV report.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		started := time.Now()
		opt := s.newOptimizer()
		if err := opt.Run(cmd.Context()); err != nil {
			return err
		}

		st := opt.Stats()
		s.log.Info("optimize finished",
			zap.String("root", opt.Root),
			zap.Duration("took", time.Since(started)),
			zap.Int("photos", st.Photos),
			zap.Int("removed", st.Removed),
			zap.Int("errors", st.Errors))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(optimizeCmd)
}
