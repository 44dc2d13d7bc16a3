package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vango-dev/wingman/internal/errors"
	"github.com/vango-dev/wingman/pkg/composition"
)

const (
	// ConfigName is the base name of the project file.
	ConfigName = "wingman"

	// EnvPrefix prefixes environment overrides, e.g. WINGMAN_PREVIEW_PORT.
	EnvPrefix = "WINGMAN"

	// DefaultEntry is the tree file composed when no entry is configured.
	DefaultEntry = "wingman.tree.yaml"

	// DefaultPreviewHost is the default preview server host.
	DefaultPreviewHost = "localhost"

	// DefaultPreviewPort is the default preview server port.
	DefaultPreviewPort = 4400

	// DefaultConcurrency bounds concurrent include reads.
	DefaultConcurrency = 8

	// DefaultDebounce is the quiet period before a watch-triggered recompose.
	DefaultDebounce = 150 * time.Millisecond
)

// Config is the contents of wingman.yaml.
type Config struct {
	// Name is the project name.
	Name string `mapstructure:"name"`

	// Entry is the tree file to compose, relative to the project directory.
	Entry string `mapstructure:"entry"`

	// Target is the agent the outputs are laid out for.
	Target string `mapstructure:"target"`

	// TargetDirectory receives the generated files.
	TargetDirectory string `mapstructure:"targetDirectory"`

	// IncludeBase is the directory include sources are read from. Empty
	// means the target directory.
	IncludeBase string `mapstructure:"includeBase"`

	// Options are the extension options visible to option switches.
	Options map[string]string `mapstructure:"options"`

	DryRun bool `mapstructure:"dryRun"`

	// Concurrency is the maximum number of include reads in flight.
	Concurrency int `mapstructure:"concurrency"`

	Preview PreviewConfig `mapstructure:"preview"`
	Watch   WatchConfig   `mapstructure:"watch"`
	S3      S3Config      `mapstructure:"s3"`

	// configPath is the file the configuration was read from, if any.
	configPath string

	// root is the project directory when no file was read.
	root string
}

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// WatchConfig configures the file watcher.
type WatchConfig struct {
	// Paths are watched recursively. Empty means the project directory.
	Paths []string `mapstructure:"paths"`

	// Ignore holds glob patterns matched against base names and
	// project-relative paths.
	Ignore []string `mapstructure:"ignore"`

	Debounce time.Duration `mapstructure:"debounce"`
}

// S3Config selects a bucket for uploading outputs.
type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	PathStyle bool   `mapstructure:"pathStyle"`
}

// Enabled reports whether an S3 bucket is configured.
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// defaults are applied to every viper instance. Keys listed here are also
// the keys environment overrides can reach.
var defaults = map[string]any{
	"name":            "",
	"entry":           DefaultEntry,
	"target":          composition.DefaultAgent,
	"targetDirectory": ".",
	"includeBase":     "",
	"dryRun":          false,
	"concurrency":     DefaultConcurrency,
	"preview.host":    DefaultPreviewHost,
	"preview.port":    DefaultPreviewPort,
	"watch.paths":     []string{},
	"watch.ignore":    []string{".git", "node_modules"},
	"watch.debounce":  DefaultDebounce,
	"s3.bucket":       "",
	"s3.prefix":       "",
	"s3.region":       "",
	"s3.endpoint":     "",
	"s3.pathStyle":    false,
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// New returns a configuration holding only the defaults, rooted at dir.
func New(dir string) *Config {
	return &Config{
		Entry:           DefaultEntry,
		Target:          composition.DefaultAgent,
		TargetDirectory: ".",
		Options:         map[string]string{},
		Concurrency:     DefaultConcurrency,
		Preview: PreviewConfig{
			Host: DefaultPreviewHost,
			Port: DefaultPreviewPort,
		},
		Watch: WatchConfig{
			Ignore:   []string{".git", "node_modules"},
			Debounce: DefaultDebounce,
		},
		root: dir,
	}
}

// Load reads the project file in dir. Any of wingman.yaml, wingman.yml,
// wingman.json or wingman.toml is accepted.
func Load(dir string) (*Config, error) {
	v := newViper()
	v.SetConfigName(ConfigName)
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if stderrors.As(err, &notFound) {
			return nil, errors.New("W010").
				WithDetail("No " + ConfigName + ".yaml found in " + dir).
				WithSuggestion("Create " + ConfigName + ".yaml or pass --config")
		}
		return nil, invalid(err)
	}
	return finish(v, "")
}

// LoadFile reads configuration from an explicit path.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New("W010").
				WithDetail("No configuration file at " + path).
				Wrap(err)
		}
		return nil, invalid(err)
	}
	return finish(v, "")
}

// LoadEnv builds a configuration from defaults and WINGMAN_ environment
// variables only, rooted at dir. It is used when a project has no file.
func LoadEnv(dir string) (*Config, error) {
	return finish(newViper(), dir)
}

// LoadOrEnv loads dir's project file, falling back to LoadEnv when there is
// none.
func LoadOrEnv(dir string) (*Config, error) {
	cfg, err := Load(dir)
	var werr *errors.WingmanError
	if stderrors.As(err, &werr) && werr.Code == "W010" {
		return LoadEnv(dir)
	}
	return cfg, err
}

func finish(v *viper.Viper, root string) (*Config, error) {
	cfg, err := decode(v)
	if err != nil {
		return nil, invalid(err)
	}
	cfg.configPath = v.ConfigFileUsed()
	cfg.root = root
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Options == nil {
		cfg.Options = map[string]string{}
	}
	return &cfg, nil
}

func invalid(err error) *errors.WingmanError {
	return errors.New("W011").
		WithDetail(err.Error()).
		Wrap(err)
}

// Validate checks the configuration for values no command can use.
func (c *Config) Validate() error {
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return errors.New("W011").
			WithDetailf("preview.port must be between 0 and 65535, got %d", c.Preview.Port)
	}
	switch c.Target {
	case composition.AgentCopilot, composition.AgentClaude, composition.AgentClaudePlugin:
	default:
		return errors.New("W011").
			WithDetailf("unknown target %q", c.Target).
			WithSuggestion("Use one of: copilot, claude, claude-plugin")
	}
	if c.Concurrency < 0 {
		return errors.New("W011").
			WithDetailf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if c.Watch.Debounce < 0 {
		return errors.New("W011").
			WithDetailf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	if strings.TrimSpace(c.Entry) == "" {
		return errors.New("W011").WithDetail("entry must not be empty")
	}
	return nil
}

// Path returns the file the configuration was read from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the project directory: the directory of the config file, or
// the directory given to LoadEnv or New.
func (c *Config) Dir() string {
	if c.configPath != "" {
		return filepath.Dir(c.configPath)
	}
	if c.root != "" {
		return c.root
	}
	return "."
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// EntryPath returns the path of the tree file.
func (c *Config) EntryPath() string {
	return c.resolve(c.Entry)
}

// TargetPath returns the directory outputs are written to.
func (c *Config) TargetPath() string {
	if c.TargetDirectory == "" {
		return c.Dir()
	}
	return c.resolve(c.TargetDirectory)
}

// IncludeBasePath returns the directory include sources are read from.
func (c *Config) IncludeBasePath() string {
	if c.IncludeBase == "" {
		return c.TargetPath()
	}
	return c.resolve(c.IncludeBase)
}

// WatchPaths returns the resolved watch roots.
func (c *Config) WatchPaths() []string {
	if len(c.Watch.Paths) == 0 {
		return []string{c.Dir()}
	}
	paths := make([]string, len(c.Watch.Paths))
	for i, p := range c.Watch.Paths {
		paths[i] = c.resolve(p)
	}
	return paths
}

// PreviewAddress returns the host:port the preview server listens on.
func (c *Config) PreviewAddress() string {
	return c.Preview.Host + ":" + strconv.Itoa(c.Preview.Port)
}

// PreviewURL returns the preview server's base URL.
func (c *Config) PreviewURL() string {
	return "http://" + c.PreviewAddress()
}

// Exists reports whether dir holds a project file.
func Exists(dir string) bool {
	for _, ext := range viper.SupportedExts {
		if _, err := os.Stat(filepath.Join(dir, ConfigName+"."+ext)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up from startDir to the first directory holding a
// project file.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("W010").
				WithDetail("No " + ConfigName + ".yaml found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
