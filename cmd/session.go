package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bnema/bbscapade/internal/adapters/console"
	"github.com/bnema/bbscapade/internal/application"
	"github.com/bnema/bbscapade/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runConnect(cmd *cobra.Command, c *cli) error {
	ctx := cmd.Context()

	app, err := wireApp(ctx, c, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	return newBBS(app, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()).run(ctx)
}

// bbs drives one dial-in from the modem handshake to NO CARRIER.
type bbs struct {
	app     *app
	in      *console.Reader
	out     io.Writer
	errOut  io.Writer
	typer   *console.Typewriter
	profile domain.Profile
}

func newBBS(app *app, in io.Reader, out, errOut io.Writer) *bbs {
	return &bbs{
		app:    app,
		in:     console.NewReader(in),
		out:    out,
		errOut: errOut,
		typer:  console.NewTypewriter(out, app.cfg.UI.TypingDelay),
	}
}

func (b *bbs) run(ctx context.Context) error {
	err := b.connect(ctx)
	if err == nil {
		err = b.mainMenu(ctx)
	}
	return b.hangup(err)
}

// hangup is the single teardown for logoff, interrupts and closed input.
// Interrupts and closed input are a normal way to leave and return nil.
func (b *bbs) hangup(cause error) error {
	interrupted := errors.Is(cause, context.Canceled) || errors.Is(cause, io.EOF)
	if interrupted {
		b.println(b.app.view.Interrupted())
	}

	if b.app.session.Disconnect() {
		boards, categories := b.app.session.Visited()
		b.app.logger.Info("session disconnected",
			zap.String("handle", b.app.session.Handle()),
			zap.Strings("boards", boards),
			zap.Strings("categories", categories),
			zap.Bool("interrupted", interrupted))
	}
	b.println(b.app.view.NoCarrier())

	if interrupted {
		return nil
	}
	return cause
}

func (b *bbs) connect(ctx context.Context) error {
	session := b.app.session
	if err := session.Connect(); err != nil {
		return err
	}
	b.println(b.app.view.Connecting(fmt.Sprintf("555-%04d", b.app.library.IntN(10000))))

	var outcome application.Outcome
	err := b.load(ctx, "Negotiating handshake...", func(ctx context.Context) error {
		var err error
		b.profile, outcome, err = b.app.content.Profile(ctx)
		return err
	})
	if err != nil {
		return err
	}
	b.notice(b.app.view.Degraded(outcome))
	b.println(b.app.view.Welcome(b.profile, b.app.content.WelcomeTagline(b.profile), b.app.content.WelcomeArt()))

	if err := session.AwaitLogin(); err != nil {
		return err
	}
	b.println(b.app.view.LoginHeader())
	handle, err := b.prompt(ctx, b.app.view.HandlePrompt())
	if err != nil {
		return err
	}
	if err := session.Login(handle); err != nil {
		return err
	}
	b.app.logger.Info("user logged in", zap.String("handle", session.Handle()))

	return b.typeLine(ctx, b.app.view.LoginAccepted(session.Handle()))
}

func (b *bbs) mainMenu(ctx context.Context) error {
	for {
		b.println(b.app.view.MainMenu())
		choice, err := b.prompt(ctx, b.app.view.MenuPrompt())
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = b.messageBoards(ctx)
		case "2":
			err = b.fileArchives(ctx)
		case "3":
			err = b.doorGames(ctx)
		case "4":
			err = b.chat(ctx)
		case "5":
			b.println(b.app.view.Logoff())
			return nil
		default:
			b.println(b.app.view.Invalid("Invalid choice. Please try again."))
		}
		if err != nil {
			return err
		}
	}
}

func (b *bbs) messageBoards(ctx context.Context) error {
	boards, err := b.app.content.Boards(ctx)
	if err != nil {
		return err
	}

	for {
		index, back, err := b.choose(ctx, b.app.view.BoardList(boards), len(boards), "Select a board: ")
		if err != nil || back {
			return err
		}
		if err := b.readBoard(ctx, boards[index]); err != nil {
			return err
		}
	}
}

func (b *bbs) readBoard(ctx context.Context, board string) error {
	var (
		messages []domain.BoardMessage
		outcome  application.Outcome
	)
	err := b.load(ctx, "Downloading messages from "+board+"...", func(ctx context.Context) error {
		var err error
		messages, outcome, err = b.app.content.BoardMessages(ctx, board)
		return err
	})
	if err != nil {
		return err
	}
	b.notice(b.app.view.Degraded(outcome))

	for i := 0; i < len(messages); {
		b.println(b.app.view.Message(board, i, len(messages), messages[i]))
		command, err := b.prompt(ctx, b.app.view.Prompt("Command: "))
		if err != nil {
			return err
		}

		switch strings.ToUpper(command) {
		case "N":
			i++
			if i >= len(messages) {
				b.println(b.app.view.Notice("End of messages."))
			}
		case "Q":
			return nil
		default:
			b.println(b.app.view.Invalid("Invalid command."))
		}
	}
	return nil
}

func (b *bbs) fileArchives(ctx context.Context) error {
	categories, err := b.app.content.Categories(ctx)
	if err != nil {
		return err
	}

	for {
		index, back, err := b.choose(ctx, b.app.view.CategoryList(categories), len(categories), "Select a category: ")
		if err != nil || back {
			return err
		}
		if err := b.browseCategory(ctx, categories[index]); err != nil {
			return err
		}
	}
}

func (b *bbs) browseCategory(ctx context.Context, category string) error {
	var (
		files   []domain.FileEntry
		outcome application.Outcome
	)
	err := b.load(ctx, "Indexing the "+category+" archive...", func(ctx context.Context) error {
		var err error
		files, outcome, err = b.app.content.CategoryFiles(ctx, category)
		return err
	})
	if err != nil {
		return err
	}
	b.notice(b.app.view.Degraded(outcome))

	for {
		b.println(b.app.view.FileTable(category, files))
		command, err := b.prompt(ctx, b.app.view.Prompt("Command: "))
		if err != nil {
			return err
		}
		if strings.EqualFold(command, "Q") {
			return nil
		}

		number, err := strconv.Atoi(command)
		if err != nil {
			b.println(b.app.view.Invalid("Please enter a number or Q."))
			continue
		}
		if number < 1 || number > len(files) {
			b.println(b.app.view.Invalid("Invalid file number."))
			continue
		}

		if err := b.fileDetails(ctx, category, number-1, files[number-1]); err != nil {
			return err
		}
		// Download counters may have moved; the cached listing is authoritative.
		if files, _, err = b.app.content.CategoryFiles(ctx, category); err != nil {
			return err
		}
	}
}

func (b *bbs) fileDetails(ctx context.Context, category string, index int, file domain.FileEntry) error {
	for {
		b.println(b.app.view.FileDetails(category, file))
		command, err := b.prompt(ctx, b.app.view.Prompt("Command: "))
		if err != nil {
			return err
		}

		switch strings.ToUpper(command) {
		case "D":
			downloaded, err := b.download(ctx, category, index, file)
			if err != nil {
				return err
			}
			file = downloaded
		case "Q":
			return nil
		default:
			b.println(b.app.view.Invalid("Invalid command."))
		}
	}
}

func (b *bbs) download(ctx context.Context, category string, index int, file domain.FileEntry) (domain.FileEntry, error) {
	b.println(b.app.view.DownloadHeader(file))
	if err := runTransfer(ctx, b.out, file.TransferChunks(), b.app.library.IntN); err != nil {
		return file, err
	}

	result, err := b.app.content.Download(category, index)
	if err != nil {
		return file, err
	}
	b.println("")
	b.println(b.app.view.DownloadComplete(result))

	_, err = b.prompt(ctx, b.app.view.PressEnter("continue"))
	return result.File, err
}

func (b *bbs) doorGames(ctx context.Context) error {
	game := b.app.content.DoorGame()

	for {
		_, back, err := b.choose(ctx, b.app.view.DoorList(game), 1, "Select an option: ")
		if err != nil || back {
			return err
		}

		b.println(b.app.view.DoorTitle(game))
		if err := b.typeLine(ctx, b.app.view.Notice("Loading "+game.Name+"...")); err != nil {
			return err
		}
		b.println(b.app.view.DoorFailure(b.app.content.DoorError()))
		b.app.logger.Debug("door game failed to start", zap.String("game", game.Name))

		if _, err := b.prompt(ctx, b.app.view.PressEnter("return to the games menu")); err != nil {
			return err
		}
	}
}

func (b *bbs) chat(ctx context.Context) error {
	b.println(b.app.view.ChatHeader())

	chat := b.app.sysop.Open(b.app.sysop.NewPersona(b.profile), b.app.session.Handle())
	sysop := chat.Persona().Name

	greeting, err := chat.Greet(ctx)
	if err != nil {
		return err
	}
	if err := b.typeLine(ctx, b.app.view.SysopLine(sysop, greeting)); err != nil {
		return err
	}

	for {
		message, err := b.prompt(ctx, b.app.view.UserPrompt(chat.Handle()))
		if err != nil {
			return err
		}
		if domain.IsChatExit(message) {
			break
		}
		if message == "" {
			continue
		}

		b.println(b.app.view.Notice("SysOp is typing..."))
		reply, err := chat.Reply(ctx, message)
		if err != nil {
			return err
		}
		if err := b.typeLine(ctx, b.app.view.SysopLine(sysop, reply)); err != nil {
			return err
		}
	}

	farewell, err := chat.Farewell(ctx)
	if err != nil {
		return err
	}
	if err := b.typeLine(ctx, b.app.view.SysopLine(sysop, farewell)); err != nil {
		return err
	}
	b.println(b.app.view.ChatClosed())

	_, err = b.prompt(ctx, b.app.view.PressEnter("return to main menu"))
	return err
}

// choose shows a numbered list whose last entry returns to the main menu. It
// loops until the user picks a valid entry.
func (b *bbs) choose(ctx context.Context, list string, count int, label string) (int, bool, error) {
	for {
		b.println(list)
		choice, err := b.prompt(ctx, b.app.view.Prompt(label))
		if err != nil {
			return 0, false, err
		}

		number, err := strconv.Atoi(choice)
		switch {
		case err != nil:
			b.println(b.app.view.Invalid("Please enter a number."))
		case number == count+1:
			return 0, true, nil
		case number < 1 || number > count:
			b.println(b.app.view.Invalid("Invalid selection."))
		default:
			return number - 1, false, nil
		}
	}
}

func (b *bbs) load(ctx context.Context, label string, load func(context.Context) error) error {
	return runLoading(ctx, b.errOut, b.app.status, label, load)
}

func (b *bbs) prompt(ctx context.Context, text string) (string, error) {
	_, _ = fmt.Fprint(b.out, text)
	return b.in.ReadLine(ctx)
}

func (b *bbs) typeLine(ctx context.Context, text string) error {
	return b.typer.Print(ctx, text)
}

func (b *bbs) println(text string) {
	_, _ = fmt.Fprintln(b.out, text)
}

func (b *bbs) notice(text string) {
	if text != "" {
		b.println(text)
	}
}
