package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/llmwire/providers/ai"
)

// Profile holds the request settings shared by every subcommand. It is read
// from the --config file, then overridden by any flag set explicitly.
type Profile struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	APIKeyEnv   string        `yaml:"api_key_env"` // Variable holding the key; empty uses the provider default
	Temperature *float64      `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	System      string        `yaml:"system"`
	Timeout     time.Duration `yaml:"timeout"`
	History     string        `yaml:"history"` // Conversation file, read before and written after each call
}

// flags mirrors Profile on a flag set.
type flags struct {
	config      string
	provider    string
	model       string
	baseURL     string
	apiKeyEnv   string
	temperature float64
	maxTokens   int
	system      string
	timeout     time.Duration
	history     string
	verbose     int
	events      bool
	mimeType    string
}

func (f *flags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&f.config, "config", "c", "", "YAML profile with provider, model and request defaults")
	flagSet.StringVarP(&f.provider, "provider", "p", "", "openai, gemini or anthropic (default openai)")
	flagSet.StringVarP(&f.model, "model", "m", "", "model name")
	flagSet.StringVar(&f.baseURL, "base-url", "", "API base URL (default per provider)")
	flagSet.StringVar(&f.apiKeyEnv, "api-key-env", "", "environment variable holding the API key")
	flagSet.Float64VarP(&f.temperature, "temperature", "t", 0, "sampling temperature")
	flagSet.IntVar(&f.maxTokens, "max-tokens", 0, "output token limit")
	flagSet.StringVarP(&f.system, "system", "s", "", "system prompt")
	flagSet.DurationVar(&f.timeout, "timeout", 0, "per-request timeout, 0 for none")
	flagSet.StringVar(&f.history, "history", "", "conversation file to continue and update")
	flagSet.CountVarP(&f.verbose, "verbose", "v", "log HTTP traffic; repeat for more detail")
	flagSet.BoolVar(&f.events, "events", false, "stream: print raw Anthropic events instead of text")
	flagSet.StringVar(&f.mimeType, "mime", "", "upload: MIME type (default detected)")
}

// LoadProfile reads a YAML profile from path.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("reading profile: %w", err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return Profile{}, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	return profile, nil
}

// resolve loads the profile named by --config, if any, and applies the flags
// the user set on top of it.
func (f *flags) resolve(flagSet *pflag.FlagSet) (Profile, error) {
	var profile Profile
	if f.config != "" {
		loaded, err := LoadProfile(f.config)
		if err != nil {
			return Profile{}, err
		}
		profile = loaded
	}

	if flagSet.Changed("provider") {
		profile.Provider = f.provider
	}
	if flagSet.Changed("model") {
		profile.Model = f.model
	}
	if flagSet.Changed("base-url") {
		profile.BaseURL = f.baseURL
	}
	if flagSet.Changed("api-key-env") {
		profile.APIKeyEnv = f.apiKeyEnv
	}
	if flagSet.Changed("temperature") {
		temperature := f.temperature
		profile.Temperature = &temperature
	}
	if flagSet.Changed("max-tokens") {
		profile.MaxTokens = f.maxTokens
	}
	if flagSet.Changed("system") {
		profile.System = f.system
	}
	if flagSet.Changed("timeout") {
		profile.Timeout = f.timeout
	}
	if flagSet.Changed("history") {
		profile.History = f.history
	}

	if profile.Provider == "" {
		profile.Provider = string(ai.ProviderOpenAI)
	}
	if _, ok := ai.ParseProviderType(profile.Provider); !ok {
		return Profile{}, fmt.Errorf("unknown provider %q", profile.Provider)
	}
	return profile, nil
}

// providerType returns the parsed provider; resolve has already validated it.
func (p Profile) providerType() ai.ProviderType {
	provider, _ := ai.ParseProviderType(p.Provider)
	return provider
}

// apiKey returns the key from APIKeyEnv, or "" to let the client read the
// provider's default variable.
func (p Profile) apiKey() string {
	if p.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(p.APIKeyEnv)
}

// request builds the request configuration for messages.
func (p Profile) request(messages []ai.Message) ai.RequestConfig {
	return ai.RequestConfig{
		Model:        p.Model,
		Messages:     messages,
		SystemPrompt: p.System,
		Temperature:  p.Temperature,
		MaxTokens:    p.MaxTokens,
	}
}
