package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vango-dev/wingman/internal/config"
	"github.com/vango-dev/wingman/internal/errors"
	"github.com/vango-dev/wingman/pkg/compose"
	"github.com/vango-dev/wingman/pkg/loader"
	"github.com/vango-dev/wingman/pkg/output"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath string
	logger     *slog.Logger
}

// init resolves persistent flags, letting WINGMAN_LOG_LEVEL and
// WINGMAN_NO_COLOR stand in for flags that were not given.
func (g *globals) init(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if v.GetBool("no-color") {
		useColor = false
		errors.DisableColors()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("log-level"))); err != nil {
		return errors.New("W012").
			WithDetailf("invalid log level %q", v.GetString("log-level")).
			WithSuggestion("Use one of: debug, info, warn, error")
	}
	g.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// projectFlags are the flags of every command that composes.
type projectFlags struct {
	targetDirectory string
	target          string
	entry           string
	dryRun          bool
	options         []string
	s3Bucket        string
}

func (f *projectFlags) register(flags *pflag.FlagSet) {
	flags.StringVarP(&f.targetDirectory, "target-directory", "t", "", "Directory to write outputs to (default from wingman.yaml)")
	flags.StringVar(&f.target, "target", "", "Agent to compose for: copilot, claude, claude-plugin")
	flags.StringVar(&f.entry, "entry", "", "Tree file to compose (default wingman.tree.yaml)")
	flags.BoolVar(&f.dryRun, "dry-run", false, "Log what would be written without writing")
	flags.StringArrayVarP(&f.options, "option", "o", nil, "Extension option as key=value (repeatable)")
	flags.StringVar(&f.s3Bucket, "s3-bucket", "", "Upload outputs to this S3 bucket instead of disk")
}

// parseOptions turns key=value pairs into a map.
func parseOptions(pairs []string) (map[string]string, error) {
	opts := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.New("W012").
				WithDetailf("option %q is not key=value", pair).
				WithSuggestion("Pass options as -o language=go")
		}
		opts[key] = value
	}
	return opts, nil
}

// loadProject loads configuration for dir and applies flag overrides.
func (g *globals) loadProject(cmd *cobra.Command, args []string, f *projectFlags) (*config.Config, error) {
	cfg, err := g.loadConfig(args)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return cfg, nil
	}

	flags := cmd.Flags()
	if flags.Changed("target-directory") {
		cfg.TargetDirectory = absPath(f.targetDirectory)
	}
	if flags.Changed("target") {
		cfg.Target = f.target
	}
	if flags.Changed("entry") {
		cfg.Entry = absPath(f.entry)
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = f.dryRun
	}
	if flags.Changed("s3-bucket") {
		cfg.S3.Bucket = f.s3Bucket
	}

	opts, err := parseOptions(f.options)
	if err != nil {
		return nil, err
	}
	for k, v := range opts {
		cfg.Options[k] = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// absPath resolves command line paths against the working directory.
func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func (g *globals) loadConfig(args []string) (*config.Config, error) {
	if g.configPath != "" {
		return config.LoadFile(g.configPath)
	}
	if len(args) > 0 {
		return config.LoadOrEnv(args[0])
	}

	root, err := config.FindProjectRoot(".")
	if err != nil {
		return config.LoadEnv(".")
	}
	return config.Load(root)
}

// app is a configured composer for one command invocation.
type app struct {
	cfg      *config.Config
	composer *compose.Composer
	registry *prometheus.Registry
	logger   *slog.Logger
}

func (g *globals) newApp(cfg *config.Config) *app {
	reg := prometheus.NewRegistry()
	composerConfig := compose.Config{
		Loader:             &loader.YAML{Path: cfg.EntryPath()},
		MaxConcurrentReads: cfg.Concurrency,
		DryRun:             cfg.DryRun,
		Logger:             g.logger,
		Metrics:            compose.NewMetrics(compose.WithRegistry(reg)),
	}
	if cfg.S3.Enabled() {
		composerConfig.Writer = &output.S3Writer{
			Client: newS3Client(cfg.S3),
			Bucket: cfg.S3.Bucket,
			Prefix: cfg.S3.Prefix,
			DryRun: cfg.DryRun,
			Logger: g.logger,
		}
	}

	return &app{
		cfg:      cfg,
		composer: compose.New(composerConfig),
		registry: reg,
		logger:   g.logger,
	}
}

func (a *app) options() compose.Options {
	return compose.Options{
		Target:          a.cfg.Target,
		TargetDirectory: a.cfg.TargetPath(),
		IncludeBase:     a.cfg.IncludeBasePath(),
		Options:         a.cfg.Options,
	}
}

// destination describes where outputs go, for messages.
func (a *app) destination() string {
	if a.cfg.S3.Enabled() {
		return "s3://" + a.cfg.S3.Bucket + "/" + strings.TrimPrefix(a.cfg.S3.Prefix, "/")
	}
	return a.cfg.TargetPath()
}

func newS3Client(c config.S3Config) *s3.Client {
	region := c.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	opts := s3.Options{
		Region:       region,
		UsePathStyle: c.PathStyle,
		Credentials:  aws.NewCredentialsCache(envCredentials{}),
	}
	if c.Endpoint != "" {
		opts.BaseEndpoint = aws.String(c.Endpoint)
	}
	return s3.New(opts)
}

// envCredentials reads static credentials from the standard AWS variables.
type envCredentials struct{}

func (envCredentials) Retrieve(ctx context.Context) (aws.Credentials, error) {
	creds := aws.Credentials{
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return creds, nil
}

// classify gives every error a code for printing.
func classify(err error) error {
	var werr *errors.WingmanError
	if stderrors.As(err, &werr) {
		return werr
	}
	if strings.HasPrefix(err.Error(), "unknown command") ||
		strings.HasPrefix(err.Error(), "unknown flag") ||
		strings.Contains(err.Error(), "arg(s)") {
		return errors.Newf(errors.CategoryCLI, "%s", err.Error())
	}
	return errors.FromComposeError(err)
}

func printFiles(w io.Writer, files []output.File) {
	for _, f := range files {
		info(w, "%s", f.Path)
	}
}

func isWithin(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
