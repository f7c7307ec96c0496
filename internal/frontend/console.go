// ABOUTME: Interactive readline console frontend: one process, one session
// ABOUTME: Renders replies with numbered options; all dialogue logic stays in conversation

package frontend

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/convbot/convbot/internal/conversation"
)

// Bot is what a frontend needs from the conversation service.
type Bot interface {
	HandleInput(ctx context.Context, sessionID, text string) (conversation.Reply, error)
}

// Console is the interactive command-line frontend.
type Console struct {
	bot       Bot
	rl        *readline.Instance
	sessionID string
	logger    *slog.Logger

	// lastOptions lets the user answer a prompt by number.
	lastOptions []string
}

// NewConsole creates a console frontend. historyFile may be empty to
// disable persistent input history.
func NewConsole(bot Bot, historyFile string, logger *slog.Logger) (*Console, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          color.New(color.FgGreen).Sprint("convbot> "),
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("initializing readline: %w", err)
	}

	return &Console{
		bot:       bot,
		rl:        rl,
		sessionID: uuid.New().String(),
		logger:    logger.With("component", "console"),
	}, nil
}

// Run starts the interactive loop. It returns when the user quits or the
// context is cancelled.
func (c *Console) Run(ctx context.Context) error {
	defer c.rl.Close()

	fmt.Println("convbot interactive console. Send /convert to start, /help for commands, /quit to leave.")
	fmt.Println()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}

		// A bare number picks from the last offered options.
		if picked, ok := c.pickOption(line); ok {
			line = picked
		}

		reply, err := c.bot.HandleInput(ctx, c.sessionID, line)
		if err != nil {
			c.logger.Error("failed to handle input", "error", err)
			fmt.Printf("Error: %v\n", err)
			continue
		}

		c.lastOptions = reply.Options
		fmt.Print(renderReply(reply))
	}
}

// pickOption resolves a 1-based numeric answer against the last options.
func (c *Console) pickOption(line string) (string, bool) {
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(c.lastOptions) {
		return "", false
	}
	return c.lastOptions[n-1], true
}

// renderReply formats a reply for terminal output: the text, then the
// options as a numbered list.
func renderReply(reply conversation.Reply) string {
	var b strings.Builder
	b.WriteString(reply.Text)
	b.WriteString("\n")

	if len(reply.Options) > 0 {
		cyan := color.New(color.FgCyan)
		for i, opt := range reply.Options {
			fmt.Fprintf(&b, "  %s %s\n", cyan.Sprintf("%d.", i+1), opt)
		}
	}

	if reply.EndSession {
		b.WriteString(color.New(color.Faint).Sprint("— session ended —"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	return b.String()
}
