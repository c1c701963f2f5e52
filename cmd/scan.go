package cmd

import (
	"github.com/spf13/cobra"

	"galleryopt/internal"
)

var topFlag int

var scanCmd = &cobra.Command{
	Use:   "scan [folder]",
	Short: "Scan and hash photos without changing anything",
	Long: `Discover and hash every photo under the folder, write a scan report and
print a summary of the collection, including duplicate statistics.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		opt := s.newOptimizer()
		if err := opt.Scan(cmd.Context()); err != nil {
			return err
		}

		for _, line := range internal.Summarize(opt.Photos(), topFlag).Lines() {
			s.sink.Emit(line)
		}
		for _, line := range internal.NewDuplicateIndex(opt.Photos()).Stats().Lines() {
			s.sink.Emit(line)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().IntVar(&topFlag, "top", 5, "Number of largest files to list")

	rootCmd.AddCommand(scanCmd)
}
