package cmd

import (
    "context"

    "github.com/spf13/cobra"
    "galleryopt/internal"
)

// Version is overridden from the embedded VERSION file at startup.
var Version = "dev"

var (
    configFlag    string
    logFormatFlag string
    verboseFlag   bool
    noColorFlag   bool
)

var rootCmd = &cobra.Command{
    Use:   "galleryopt",
    Short: "Photo gallery optimizer",
    Long: `Scan a photo folder, remove exact duplicates, give photos consistent names
and sort them into year/month/day folders, writing CSV reports along the way.`,
    SilenceUsage: true,
}

func ExecuteContext(ctx context.Context) error {
    return rootCmd.ExecuteContext(ctx)
}

// ApplyVersion copies Version onto the root command's --version flag.
func ApplyVersion() {
    rootCmd.Version = Version
}

func init() {
    pf := rootCmd.PersistentFlags()
    pf.StringVar(&configFlag, "config", "", "Config file (default: <user config dir>/galleryopt/galleryopt.toml)")
    pf.String("pattern", internal.DefaultPattern, "Rename pattern using {date}, {counter} and {hash}")
    pf.String("trash", string(internal.TrashSystem), "Where duplicates go: system, staging or none")
    pf.String("locale", string(internal.LocaleEnglish), "Language of month and weekday folder names: en or ru")
    pf.Int("workers", 0, "Hashing workers (0 = one per CPU)")
    pf.StringSlice("extensions", internal.DefaultExtensions, "Image file extensions to process")
    pf.Bool("sniff-content", false, "Skip files whose content is not an image")
    pf.String("log-file", "", "Also write every log line to this file")
    pf.Bool("journal", false, "Write a JSONL journal of every file move into the reports folder")
    pf.StringVar(&logFormatFlag, "log-format", "text", "Log output: text or json")
    pf.BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose diagnostic logging")
    pf.BoolVar(&noColorFlag, "no-color", false, "Disable colored output")

    ApplyVersion()
}
