package composition

import (
	"os"
	"runtime"
	"sort"
)

// Agent names understood by the built-in components.
const (
	AgentCopilot      = "copilot"
	AgentClaude       = "claude"
	AgentClaudePlugin = "claude-plugin"
)

// DefaultAgent is used when no agent is given.
const DefaultAgent = AgentCopilot

// Platform is the operating system the composition runs on.
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
	PlatformWindows Platform = "windows"
)

// CurrentPlatform returns the platform of the running process.
func CurrentPlatform() Platform {
	return Platform(runtime.GOOS)
}

// Context is the configuration a render pass runs under. It is not modified
// once a pass starts.
type Context struct {
	// AgentName selects per-agent output layout ("copilot", "claude", ...).
	AgentName string

	// TargetDirectory is where output files are written.
	TargetDirectory string

	// Platform is the operating system of the composing process.
	Platform Platform

	// Options holds extension fields, e.g. -o language=python.
	Options map[string]string
}

// Option configures a Context built by New.
type Option func(*Context)

// WithAgent sets the target agent.
func WithAgent(name string) Option {
	return func(c *Context) {
		if name != "" {
			c.AgentName = name
		}
	}
}

// WithTargetDirectory sets the target directory.
func WithTargetDirectory(dir string) Option {
	return func(c *Context) {
		if dir != "" {
			c.TargetDirectory = dir
		}
	}
}

// WithPlatform overrides the detected platform.
func WithPlatform(p Platform) Option {
	return func(c *Context) {
		c.Platform = p
	}
}

// WithOptions merges extension options into the context.
func WithOptions(opts map[string]string) Option {
	return func(c *Context) {
		for k, v := range opts {
			c.Options[k] = v
		}
	}
}

// New creates a Context with defaults: the copilot agent, the working
// directory as target, and the running platform.
func New(opts ...Option) *Context {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	c := &Context{
		AgentName:       DefaultAgent,
		TargetDirectory: wd,
		Platform:        CurrentPlatform(),
		Options:         make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option returns the extension option stored at key.
func (c *Context) Option(key string) (string, bool) {
	if c == nil || c.Options == nil {
		return "", false
	}
	v, ok := c.Options[key]
	return v, ok
}

// OptionOr returns the extension option at key, or def when unset.
func (c *Context) OptionOr(key, def string) string {
	if v, ok := c.Option(key); ok {
		return v
	}
	return def
}

// OptionKeys returns the extension option keys in sorted order.
func (c *Context) OptionKeys() []string {
	keys := make([]string, 0, len(c.Options))
	for k := range c.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the context.
func (c *Context) Clone() *Context {
	cp := *c
	cp.Options = make(map[string]string, len(c.Options))
	for k, v := range c.Options {
		cp.Options[k] = v
	}
	return &cp
}
