// llmwire talks to OpenAI-compatible, Gemini and Anthropic APIs from the
// command line.
//
// Usage:
//
//	llmwire <command> [flags] [prompt...]
//
// Commands:
//
//	complete   send one prompt and print the reply
//	stream     send one prompt and print the reply as it arrives
//	models     list the models the provider offers
//	tokens     count the input tokens of a prompt
//	upload     upload a file and print its reference
//
// A .env file in the working directory is loaded first. Settings come from
// the --config profile, overridden by flags. A prompt of "-" is read from
// standard input.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/leofalp/llmwire/core/client"
	"github.com/leofalp/llmwire/core/client/middleware"
	slogobs "github.com/leofalp/llmwire/providers/observability/slog"

	_ "github.com/joho/godotenv/autoload"
)

type command func(ctx context.Context, env *environment, args []string) error

var commands = map[string]command{
	"complete": runComplete,
	"stream":   runStream,
	"models":   runModels,
	"tokens":   runTokens,
	"upload":   runUpload,
}

// environment is what every command receives once flags are resolved.
type environment struct {
	profile Profile
	flags   *flags
	client  *client.Client
	logger  *slog.Logger
	stdin   io.Reader
	stdout  io.Writer
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage()
		return nil
	}

	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		printUsage()
		return fmt.Errorf("unknown command %q", name)
	}

	var f flags
	flagSet := pflag.NewFlagSet("llmwire "+name, pflag.ContinueOnError)
	f.register(flagSet)
	if err := flagSet.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	profile, err := f.resolve(flagSet)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogobs.LevelFromEnv()}))
	c, err := newClient(profile, &f, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env := &environment{
		profile: profile,
		flags:   &f,
		client:  c,
		logger:  logger,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
	}
	return cmd(ctx, env, flagSet.Args())
}

// newClient builds the client for profile. Repeating -v raises the HTTP
// logging detail.
func newClient(profile Profile, f *flags, logger *slog.Logger) (*client.Client, error) {
	opts := []client.Option{
		client.WithObserver(slogobs.New(logger)),
		client.WithAppInfo("llmwire-cli", client.Version),
	}
	if key := profile.apiKey(); key != "" {
		opts = append(opts, client.WithAPIKey(key))
	}
	if profile.BaseURL != "" {
		opts = append(opts, client.WithBaseURL(profile.BaseURL))
	}
	if profile.Timeout > 0 {
		opts = append(opts, client.WithMiddleware(middleware.NewTimeoutMiddleware(profile.Timeout)))
	}
	if f.verbose > 0 {
		level := middleware.LogLevel(min(f.verbose-1, int(middleware.LogLevelVerbose)))
		opts = append(opts, client.WithMiddleware(middleware.NewLoggingMiddleware(logger, level)))
	}

	return client.New(profile.providerType(), opts...)
}

func printUsage() {
	fmt.Fprint(os.Stderr, `llmwire talks to OpenAI-compatible, Gemini and Anthropic APIs.

Usage:
  llmwire <command> [flags] [prompt...]

Commands:
  complete   send one prompt and print the reply
  stream     send one prompt and print the reply as it arrives
  models     list the models the provider offers
  tokens     count the input tokens of a prompt
  upload     upload a file and print its reference

Examples:
  llmwire complete -p gemini -m gemini-2.0-flash "Name three rivers"
  echo "Summarize this" | llmwire stream -c profile.yaml -
  llmwire upload -p openai report.pdf

Run "llmwire <command> --help" for the flags.
`)
}

// prompt joins args, or reads standard input when the only arg is "-".
func (env *environment) prompt(args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(env.stdin)
		if err != nil {
			return "", fmt.Errorf("reading prompt: %w", err)
		}
		args = []string{string(data)}
	}

	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return "", errors.New("a prompt is required")
	}
	return text, nil
}
