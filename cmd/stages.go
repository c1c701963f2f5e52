package cmd

import (
	"github.com/spf13/cobra"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup [folder]",
	Short: "Send exact duplicate photos to the trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		opt := s.newOptimizer()
		if err := opt.RemoveDuplicates(cmd.Context()); err != nil {
			return err
		}
		s.finish(opt)
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename [folder]",
	Short: "Rename photos in place using the naming pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		opt := s.newOptimizer()
		if err := opt.Rename(cmd.Context(), s.cfg.Pattern); err != nil {
			return err
		}
		s.finish(opt)
		return nil
	},
}

var organizeCmd = &cobra.Command{
	Use:   "organize [folder]",
	Short: "Move photos into year/month/day folders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		opt := s.newOptimizer()
		if err := opt.Organize(cmd.Context()); err != nil {
			return err
		}
		s.finish(opt)
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report [folder]",
	Short: "Write a CSV report of the photos in the folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		opt := s.newOptimizer()
		if _, err := opt.Report(cmd.Context()); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dedupCmd, renameCmd, organizeCmd, reportCmd)
}
