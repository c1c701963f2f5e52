package internal

import (
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "runtime"
    "strings"
    "time"

    "github.com/spf13/pflag"
    "github.com/spf13/viper"
)

const (
    DefaultDuplicatesDir = "_duplicates"
    DefaultReportsDir    = "_reports"
)

// DefaultExtensions is the image allow-list; matching ignores case.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".raw", ".tiff", ".tif"}

type Config struct {
    Extensions    []string      `mapstructure:"extensions"`
    Pattern       string        `mapstructure:"pattern"`
    Trash         string        `mapstructure:"trash"`
    Locale        string        `mapstructure:"locale"`
    Workers       int           `mapstructure:"workers"`
    ProgressEvery int           `mapstructure:"progress_every"`
    DuplicatesDir string        `mapstructure:"duplicates_dir"`
    ReportsDir    string        `mapstructure:"reports_dir"`
    SniffContent  bool          `mapstructure:"sniff_content"`
    WatchDebounce time.Duration `mapstructure:"watch_debounce"`
    LogFile       string        `mapstructure:"log_file"`
    Journal       bool          `mapstructure:"journal"`
}

func setDefaults(v *viper.Viper) {
    v.SetDefault("extensions", DefaultExtensions)
    v.SetDefault("pattern", DefaultPattern)
    v.SetDefault("trash", string(TrashSystem))
    v.SetDefault("locale", string(LocaleEnglish))
    v.SetDefault("workers", 0)
    v.SetDefault("progress_every", 50)
    v.SetDefault("duplicates_dir", DefaultDuplicatesDir)
    v.SetDefault("reports_dir", DefaultReportsDir)
    v.SetDefault("sniff_content", false)
    v.SetDefault("watch_debounce", 2*time.Second)
    v.SetDefault("log_file", "")
    v.SetDefault("journal", false)
}

// DefaultConfig returns the built-in defaults. It reads no config file,
// environment variable or flag.
func DefaultConfig() *Config {
    v := viper.New()
    setDefaults(v)
    cfg, err := decodeConfig(v)
    if err != nil {
        panic(err) // the built-in defaults always decode and validate
    }
    return cfg
}

// LoadConfig reads galleryopt.toml from configFile, or from the user config
// dir when configFile is empty, then applies GALLERYOPT_* environment
// variables and any changed flags in flags.
func LoadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
    v := viper.New()
    setDefaults(v)

    v.SetEnvPrefix("galleryopt")
    v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
    v.AutomaticEnv()

    if configFile != "" {
        v.SetConfigFile(configFile)
        if err := v.ReadInConfig(); err != nil {
            return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
        }
    } else if configDir, err := os.UserConfigDir(); err == nil {
        v.SetConfigName("galleryopt")
        v.SetConfigType("toml")
        v.AddConfigPath(filepath.Join(configDir, "galleryopt"))
        if err := v.ReadInConfig(); err != nil {
            var notFound viper.ConfigFileNotFoundError
            if !errors.As(err, &notFound) {
                return nil, fmt.Errorf("failed to read config: %w", err)
            }
            // Config file not found; that's OK, just use defaults
        }
    }

    if flags != nil {
        var bindErr error
        flags.VisitAll(func(f *pflag.Flag) {
            key := strings.ReplaceAll(f.Name, "-", "_")
            if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
                bindErr = err
            }
        })
        if bindErr != nil {
            return nil, fmt.Errorf("failed to bind flags: %w", bindErr)
        }
    }

    return decodeConfig(v)
}

func decodeConfig(v *viper.Viper) (*Config, error) {
    var cfg Config
    if err := v.Unmarshal(&cfg); err != nil {
        return nil, fmt.Errorf("failed to parse config: %w", err)
    }
    if err := cfg.Validate(); err != nil {
        return nil, err
    }

    for i, ext := range cfg.Extensions {
        cfg.Extensions[i] = normalizeExt(ext)
    }

    return &cfg, nil
}

// Validate rejects settings no stage could work with.
func (c *Config) Validate() error {
    if len(c.Extensions) == 0 {
        return errors.New("config: extensions must not be empty")
    }
    if err := ValidatePattern(c.Pattern); err != nil {
        return fmt.Errorf("config: %w", err)
    }
    switch TrashMode(c.Trash) {
    case TrashSystem, TrashStaging, TrashNone:
    default:
        return fmt.Errorf("config: unknown trash mode %q (want system, staging or none)", c.Trash)
    }
    switch Locale(c.Locale) {
    case LocaleEnglish, LocaleRussian:
    default:
        return fmt.Errorf("config: unknown locale %q (want en or ru)", c.Locale)
    }
    if c.ProgressEvery <= 0 {
        return fmt.Errorf("config: progress_every must be positive, got %d", c.ProgressEvery)
    }
    for _, dir := range []string{c.DuplicatesDir, c.ReportsDir} {
        if dir == "" || strings.ContainsAny(dir, `/\`) {
            return fmt.Errorf("config: reserved directory %q must be a plain directory name", dir)
        }
    }
    return nil
}

// WorkerCount is the hashing pool size: the configured value, or one worker per CPU.
func (c *Config) WorkerCount() int {
    if c.Workers > 0 {
        return c.Workers
    }
    return runtime.NumCPU()
}

// ReservedDirs are the directory names the scanner never descends into.
func (c *Config) ReservedDirs() []string {
    return []string{c.DuplicatesDir, c.ReportsDir}
}
