package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/boddenberg/story-chat-client/internal/domain"
	"github.com/boddenberg/story-chat-client/internal/port"

	"github.com/spf13/cobra"
)

func newChatCmd(a *app) *cobra.Command {
	var sessionID string
	var raw bool

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send one message, optionally continuing a session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sid *string
			if cmd.Flags().Changed("session") {
				sid = &sessionID
			}

			payload, err := a.client.SendMessage(cmd.Context(), strings.Join(args, " "), sid)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				return printPayload(out, payload)
			}

			reply, err := domain.DecodeStoryReply(payload)
			if err != nil {
				return err
			}
			printReply(out, reply)
			fmt.Fprintf(cmd.ErrOrStderr(), "session: %s\n", reply.SessionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session id returned by a previous reply")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the backend payload as received")
	return cmd
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is alive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := a.client.CheckHealth(cmd.Context())
			if err != nil {
				return err
			}
			return printPayload(cmd.OutOrStdout(), payload)
		},
	}
}

func newCleanupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Ask the backend to drop expired sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := a.client.Cleanup(cmd.Context())
			if err != nil {
				return err
			}
			return printPayload(cmd.OutOrStdout(), payload)
		},
	}
}

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Chat interactively; /new starts a new session, /quit exits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd.Context(), a.client, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runRepl reads one message per line. The session id of each reply is
// sent with the next message.
func runRepl(ctx context.Context, backend port.ChatBackend, in io.Reader, out io.Writer) error {
	var session *string
	scanner := bufio.NewScanner(in)

	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
		case "/quit":
			return nil
		case "/new":
			session = nil
			fmt.Fprintln(out, "(new session)")
		default:
			payload, err := backend.SendMessage(ctx, line, session)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				break
			}
			reply, err := domain.DecodeStoryReply(payload)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				break
			}
			if reply.SessionID != "" {
				sid := reply.SessionID
				session = &sid
			}
			printReply(out, reply)
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}

func printReply(out io.Writer, reply *domain.StoryReply) {
	fmt.Fprintln(out, reply.Message)
	if reply.Story != nil && *reply.Story != "" {
		fmt.Fprintf(out, "\n%s\n", *reply.Story)
	}
	if reply.IsComplete {
		fmt.Fprintln(out, "(story complete)")
	}
}

func printPayload(out io.Writer, p domain.Payload) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, p, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(out)
	return err
}
