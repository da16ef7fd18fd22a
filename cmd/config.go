package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"github.com/shipengqi/modelsync/pkg/ollama"
	"github.com/shipengqi/modelsync/pkg/progress"
)

var (
	_defaultRegistry = "https://registry.ollama.ai"
	_defaultLockFile = filepath.Join(os.TempDir(), "modelsync.lock")
	_defaultTimeout  = 30 * time.Second
)

type Config struct {
	Host              string        `yaml:"host"`
	Registry          string        `yaml:"registry"`
	Progress          string        `yaml:"progress"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	LogFile           string        `yaml:"log_file"`
	LogLevel          string        `yaml:"log_level"`
	LockFile          string        `yaml:"lock_file"`
}

var (
	Conf       = defaultConfig()
	configFile string
)

func defaultConfig() *Config {
	return &Config{
		Host:     ollama.DefaultHost,
		Registry: _defaultRegistry,
		Progress: progress.ModeLine,
		Timeout:  _defaultTimeout,
		LogLevel: "warn",
		LockFile: _defaultLockFile,
	}
}

func addGlobalFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&configFile, "config", "c", "", "YAML config file.")
	flagSet.StringVar(&Conf.Host, "host", Conf.Host, "Local Ollama server URL.")
	flagSet.StringVar(&Conf.Registry, "registry", Conf.Registry, "Model registry base URL.")
	flagSet.StringVar(&Conf.Progress, "progress", Conf.Progress, "Progress display, \"line\" or \"bar\".")
	flagSet.DurationVar(&Conf.Timeout, "timeout", Conf.Timeout, "Timeout of a single listing or manifest request.")
	flagSet.Float64Var(&Conf.RequestsPerSecond, "requests-per-second", Conf.RequestsPerSecond, "Registry request limit, 0 means unlimited.")
	flagSet.StringVar(&Conf.LogFile, "log-file", Conf.LogFile, "Log file path, logs go to stderr if empty.")
	flagSet.StringVar(&Conf.LogLevel, "log-level", Conf.LogLevel, "Log level.")
	flagSet.StringVar(&Conf.LockFile, "lock-file", Conf.LockFile, "Lock file guarding against concurrent updates.")
}

// loadConfig merges file into Conf. Flags set on the command line win over
// the file.
func loadConfig(flagSet *pflag.FlagSet, file string) error {
	if file == "" {
		return nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read config: %v", err)
	}

	explicit := map[string]string{}
	flagSet.Visit(func(f *pflag.Flag) {
		explicit[f.Name] = f.Value.String()
	})
	if err = yaml.UnmarshalStrict(data, Conf); err != nil {
		return fmt.Errorf("yaml unmarshal: %v", err)
	}
	for name, value := range explicit {
		if err = flagSet.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}
