package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"text/tabwriter"

	"github.com/leofalp/llmwire/core/conversation"
	"github.com/leofalp/llmwire/providers/ai"
)

// conversationFor loads the history file, if any, and appends the prompt
// given in args. A history file that does not exist yet starts empty.
func (env *environment) conversationFor(ctx context.Context, args []string) (*conversation.History, error) {
	text, err := env.prompt(args)
	if err != nil {
		return nil, err
	}

	history := conversation.NewHistory()
	if env.profile.History != "" {
		loaded, err := conversation.LoadHistory(env.profile.History)
		switch {
		case err == nil:
			history = loaded
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}

	history.AppendText(ctx, ai.RoleUser, text)
	return history, nil
}

// saveReply records the assistant reply and writes the history back.
func (env *environment) saveReply(ctx context.Context, history *conversation.History, reply string) error {
	if env.profile.History == "" {
		return nil
	}
	history.AppendText(ctx, ai.RoleAssistant, reply)
	if err := history.Save(env.profile.History); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

func runComplete(ctx context.Context, env *environment, args []string) error {
	history, err := env.conversationFor(ctx, args)
	if err != nil {
		return err
	}

	response, err := env.client.Complete(ctx, history.Request(env.profile.request(nil)))
	if err != nil {
		return err
	}

	text := response.Text()
	fmt.Fprintln(env.stdout, text)
	env.logger.Debug("completion finished", "finish_reason", response.FinishReason)
	return env.saveReply(ctx, history, text)
}

func runStream(ctx context.Context, env *environment, args []string) error {
	history, err := env.conversationFor(ctx, args)
	if err != nil {
		return err
	}
	cfg := history.Request(env.profile.request(nil))

	if env.flags.events {
		for event, err := range env.client.StreamAnthropic(ctx, cfg) {
			if err != nil {
				return err
			}
			fmt.Fprintf(env.stdout, "event: %s\ndata: %s\n\n", event.Name, event.Data)
		}
		return nil
	}

	var reply strings.Builder
	stream := env.client.Stream(ctx, cfg)
	for event, err := range stream.Iter() {
		if err != nil {
			fmt.Fprintln(env.stdout)
			return err
		}
		token := event.TokenText()
		reply.WriteString(token)
		fmt.Fprint(env.stdout, token)
	}
	fmt.Fprintln(env.stdout)

	if result := stream.Result(); result != nil {
		env.logger.Debug("stream finished", "finish_reason", result.FinishReason, "status", result.StatusCode)
	}
	return env.saveReply(ctx, history, reply.String())
}

func runModels(ctx context.Context, env *environment, _ []string) error {
	models, err := env.client.ListModels(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(env.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tINPUT\tOUTPUT")
	for _, model := range models {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", model.ID, model.DisplayName, limit(model.InputTokenLimit), limit(model.OutputTokenLimit))
	}
	return w.Flush()
}

func limit(tokens int) string {
	if tokens == 0 {
		return "-"
	}
	return fmt.Sprint(tokens)
}

func runTokens(ctx context.Context, env *environment, args []string) error {
	history, err := env.conversationFor(ctx, args)
	if err != nil {
		return err
	}

	count, err := env.client.CountTokens(ctx, history.Request(env.profile.request(nil)))
	if err != nil {
		return err
	}
	fmt.Fprintln(env.stdout, count)
	return nil
}

func runUpload(ctx context.Context, env *environment, args []string) error {
	if len(args) != 1 {
		return errors.New("upload takes exactly one file path")
	}

	info, err := env.client.UploadFile(ctx, args[0], env.flags.mimeType)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(env.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "id:\t%s\n", info.ID)
	if info.Name != "" {
		fmt.Fprintf(w, "name:\t%s\n", info.Name)
	}
	fmt.Fprintf(w, "mime_type:\t%s\n", info.MIMEType)
	if info.SizeBytes > 0 {
		fmt.Fprintf(w, "size:\t%d\n", info.SizeBytes)
	}
	return w.Flush()
}
