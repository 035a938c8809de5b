package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"contractscanner/internal/config"
	"contractscanner/internal/conversation"
	"contractscanner/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// exitWords end the interactive session at any prompt.
var exitWords = map[string]struct{}{"exit": {}, "quit": {}} //nolint: gochecknoglobals

// repl runs the terminal wizard over a conversation machine.
type repl struct {
	machine *conversation.Machine
	in      *bufio.Scanner
	out     printer
}

func newREPL(d conversation.Dispatcher, in io.Reader, out io.Writer) *repl {
	return &repl{
		machine: conversation.New(d, conversation.Options{
			ScanTypes: conversation.CLIScanTypes(),
			Prompter:  conversation.CLIPrompter{},
		}),
		in:  bufio.NewScanner(in),
		out: printer{w: out},
	}
}

// readLine prompts and returns the trimmed input. ok is false on end of input
// or when the user asked to leave.
func (r *repl) readLine(prompt string) (string, bool) {
	r.out.f("%s", prompt)
	if !r.in.Scan() {
		return "", false
	}
	line := strings.TrimSpace(r.in.Text())
	if _, quit := exitWords[strings.ToLower(line)]; quit {
		return "", false
	}

	return line, true
}

func (r *repl) confirm(question string) bool {
	answer, ok := r.readLine(question + " (yes/no):")
	if !ok {
		return false
	}
	answer = strings.ToLower(answer)

	return answer == "yes" || answer == "y"
}

// run drives conversations until the input ends, the user quits, the user
// declines another scan or ctx is cancelled.
func (r *repl) run(ctx context.Context) {
	var st conversation.State
	reply := r.machine.Start(&st)

	for ctx.Err() == nil {
		line, ok := r.readLine("\n" + reply.Text)
		if !ok {
			break
		}

		reply = r.machine.Step(ctx, &st, line)
		if reply.Result == nil {
			continue
		}

		r.out.f("\n%s", reply.Text)
		r.out.result(*reply.Result)
		if reply.Result.OK() && r.confirm("\nWould you like to see the full JSON response?") {
			r.out.raw(*reply.Result)
		}
		if !r.confirm("\nWould you like to scan another contract?") {
			break
		}
		reply = r.machine.Start(&st)
	}

	r.out.f("\nThank you for using the SolidityScan contract scanner!")
}

func interactiveCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Walks through a scan step by step",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := cfg.RequireAPIKey(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "SolidityScan Contract Scanner")
			_, _ = fmt.Fprintln(out, "=============================")
			_, _ = fmt.Fprintf(out, "Using API key: %s\n", config.MaskKey(cfg.SolidityScan.APIKey))
			_, _ = fmt.Fprintln(out, "Type 'exit' or 'quit' at any prompt to leave, 'cancel' to start over.")

			sc, _ := newScanner(cfg)
			logger.Debug(ctx, "starting interactive session", zap.String("environment", cfg.Environment))
			newREPL(sc, os.Stdin, out).run(ctx)

			return nil
		},
	}
}
