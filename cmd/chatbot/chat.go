package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flynn-ai/chatbot/internal/chatbot"
	apperrors "github.com/flynn-ai/chatbot/internal/errors"
	"github.com/flynn-ai/chatbot/internal/render"
	"github.com/flynn-ai/chatbot/pkg/protocol"
)

const chatHelp = `Commands:
  /next, /back        page through notes
  /delete             delete the note shown
  /save-name <name>   set your name
  /note <title> | <description>
                      save a note
  /stats              session statistics
  /help               this help
  /quit               leave`

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

var cardWidth int

func init() {
	chatCmd.Flags().IntVar(&cardWidth, "width", 64, "card width for structured replies (0 disables wrapping)")
}

// repl is the interactive loop. It remembers the last note pager so the
// paging commands act on it.
type repl struct {
	session  *chatbot.Session
	renderer *render.Renderer
	out      io.Writer
	pager    *protocol.NotePager
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	session, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	r := &repl{
		session:  session,
		renderer: render.New(cardWidth),
		out:      cmd.OutOrStdout(),
	}
	fmt.Fprintln(r.out, "Say hello. /help lists commands, /quit leaves.")

	lines := readLines(ctx, cmd.InOrStdin())
	for {
		fmt.Fprint(r.out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(r.out)
				return nil
			}
			if quit := r.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

// readLines feeds stdin lines to a channel until EOF or cancellation.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case ch <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (r *repl) handle(ctx context.Context, line string) (quit bool) {
	if !strings.HasPrefix(line, "/") {
		turn := r.session.Respond(ctx, line)
		if turn.Silent() {
			return false
		}
		if turn.Reply.Kind == protocol.KindNotePager {
			r.pager = turn.Reply.NotePager
		}
		r.print(turn.Reply)
		return false
	}

	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(r.out, chatHelp)
	case "/next", "/back":
		if r.pager == nil {
			r.say(`No notes open. Try "show my notes".`)
			return false
		}
		if name == "/next" {
			r.pager.Next()
		} else {
			r.pager.Back()
		}
		r.print(protocol.NotePagerReply(r.pager))
	case "/delete":
		if r.pager == nil {
			r.say(`No notes open. Try "show my notes".`)
			return false
		}
		if err := r.session.DeleteNote(ctx, r.pager); err != nil {
			r.fail(err)
			return false
		}
		r.print(protocol.NotePagerReply(r.pager))
	case "/save-name":
		if err := r.session.SaveName(ctx, arg); err != nil {
			r.fail(err)
			return false
		}
		r.say("Nice to meet you, " + arg + ".")
	case "/note":
		title, desc, found := strings.Cut(arg, "|")
		if !found {
			r.say("Usage: /note <title> | <description>")
			return false
		}
		note, err := r.session.CreateNote(ctx, title, desc)
		if err != nil {
			r.fail(err)
			return false
		}
		r.say(fmt.Sprintf("Saved %q.", note.Title))
	case "/stats":
		data, err := json.MarshalIndent(r.session.Stats(), "", "  ")
		if err != nil {
			r.fail(err)
			return false
		}
		fmt.Fprintln(r.out, string(data))
	default:
		r.say("Unknown command " + name + ". /help lists commands.")
	}
	return false
}

func (r *repl) print(reply protocol.Reply) {
	if jsonOut {
		data, err := json.Marshal(reply)
		if err != nil {
			logger.Warn("cannot encode reply", zap.Error(err))
			return
		}
		fmt.Fprintln(r.out, string(data))
		return
	}
	fmt.Fprintln(r.out, r.renderer.Reply(reply))
}

func (r *repl) say(text string) { r.print(protocol.TextReply(text)) }

func (r *repl) fail(err error) {
	if apperrors.GetCategory(err) != apperrors.CategoryUser {
		logger.Warn("command failed", zap.Error(err))
	}
	r.say(apperrors.FormatUserMessage(err))
}
