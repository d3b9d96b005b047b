package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	EnvConfigPath = "RCOACH_CONFIG"
	EnvGeminiKey  = "GEMINI_API_KEY"
)

type Config struct {
	ReplayDir    string   `toml:"replay_dir"`
	DataDir      string   `toml:"data_dir"`
	DBPath       string   `toml:"db_path"`
	LedgerPath   string   `toml:"ledger_path"`
	ReportsDir   string   `toml:"reports_dir"`
	TrainingDir  string   `toml:"training_dir"`
	PollInterval Duration `toml:"poll_interval"`
	// Strategy selects the extractor for binary replays: "heuristic" or "structured".
	Strategy string `toml:"strategy"`

	Log      LogConfig      `toml:"log"`
	Feedback FeedbackConfig `toml:"feedback"`

	// Path is the config file that was read, empty when defaults were used.
	Path string `toml:"-"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type FeedbackConfig struct {
	Enabled  bool     `toml:"enabled"`
	Model    string   `toml:"model"`
	APIKey   string   `toml:"api_key"`
	Timeout  Duration `toml:"timeout"`
	Attempts uint     `toml:"attempts"`
}

// Duration decodes TOML strings such as "30s" or "2m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default(home string) *Config {
	data := filepath.Join(home, ".local", "share", "rcoach")
	return &Config{
		ReplayDir:    filepath.Join(home, "Documents", "FortniteReplays"),
		DataDir:      data,
		PollInterval: Duration{30 * time.Second},
		Strategy:     "heuristic",
		Log:          LogConfig{Level: "info"},
		Feedback: FeedbackConfig{
			Enabled:  true,
			Model:    "gemini-2.5-flash",
			Timeout:  Duration{60 * time.Second},
			Attempts: 2,
		},
	}
}

// Load reads ~/.config/rcoach/config.toml, or the file named by RCOACH_CONFIG,
// on top of the defaults. A missing file is not an error.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfgPath := os.Getenv(EnvConfigPath)
	if cfgPath == "" {
		cfgPath = filepath.Join(home, ".config", "rcoach", "config.toml")
	}
	return LoadFile(cfgPath, home)
}

func LoadFile(cfgPath, home string) (*Config, error) {
	cfg := Default(home)

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
		cfg.Path = cfgPath
	}

	cfg.ReplayDir = expandHome(cfg.ReplayDir, home)
	cfg.DataDir = expandHome(cfg.DataDir, home)
	cfg.DBPath = expandHome(orJoin(cfg.DBPath, cfg.DataDir, "rcoach.db"), home)
	cfg.LedgerPath = expandHome(orJoin(cfg.LedgerPath, cfg.DataDir, "processed_replays.json"), home)
	cfg.ReportsDir = expandHome(orJoin(cfg.ReportsDir, cfg.DataDir, "reports"), home)
	cfg.TrainingDir = expandHome(orJoin(cfg.TrainingDir, cfg.DataDir, "training_data"), home)
	cfg.Log.File = expandHome(cfg.Log.File, home)

	loadDotEnv(".env", filepath.Join(cfg.DataDir, ".env"))
	if cfg.Feedback.APIKey == "" {
		cfg.Feedback.APIKey = os.Getenv(EnvGeminiKey)
	}

	if cfg.PollInterval.Duration <= 0 {
		return nil, fmt.Errorf("poll_interval must be positive, got %s", cfg.PollInterval)
	}
	return cfg, nil
}

// loadDotEnv loads the given .env files when present. Variables already set
// in the environment win.
func loadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		_ = godotenv.Load(p)
	}
}

func orJoin(path, dir, name string) string {
	if path != "" {
		return path
	}
	return filepath.Join(dir, name)
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
