package screen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/bbscapade/internal/application"
	"github.com/bnema/bbscapade/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const lineWidth = 60

type MenuStyle int

const (
	MenuStandard MenuStyle = iota
	MenuBoxed
	MenuArrow
	MenuRetro
	menuStyleCount
)

var mainMenuOptions = []string{
	"Message Boards",
	"File Archives",
	"Door Games",
	"Chat with SysOp",
	"Logoff",
}

var menuPrompts = []string{
	"Choose an option: ",
	"Enter selection: ",
	"Command: ",
	"Your choice? ",
	"What's your pleasure? ",
}

// Renderer builds the text screens of a session. pick chooses among cosmetic
// variants (menu layout, prompts, colors); it returns a value in [0, n).
type Renderer struct {
	styles styles
	pick   func(n int) int
}

func New(pick func(n int) int) *Renderer {
	if pick == nil {
		pick = func(int) int { return 0 }
	}
	return &Renderer{styles: newStyles(), pick: pick}
}

func (r *Renderer) rule(char string) string {
	return r.styles.rule.Render(strings.Repeat(char, lineWidth))
}

func (r *Renderer) heading(title string) string {
	return r.styles.title.Render("==== " + title + " ====")
}

func (r *Renderer) field(label, value string, valueStyle lipgloss.Style) string {
	return r.styles.label.Render(label+": ") + valueStyle.Render(value)
}

func (r *Renderer) randomColor() lipgloss.Color {
	return palette[r.pick(len(palette))]
}

func (r *Renderer) Connecting(number string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		r.styles.notice.Render("ATDT "+number),
		r.styles.faint.Render("~~ eeeEEEE-ooooo-KSSSHHHHH ~~"),
		r.styles.notice.Render("CONNECT 2400"),
	)
}

// Welcome is the splash screen shown after connecting.
func (r *Renderer) Welcome(profile domain.Profile, tagline, art string) string {
	banner := r.styles.banner.BorderForeground(r.randomColor()).Foreground(r.randomColor()).
		Render(strings.ToUpper(profile.Name))

	lines := []string{
		banner,
		r.styles.tagline.Foreground(r.randomColor()).Render(tagline),
		r.rule("="),
		r.field("SysOp", profile.Sysop, r.styles.value),
		r.field("Established", profile.Established, r.styles.value),
		r.field("Node Count", profile.Nodes, r.styles.value),
		r.rule("="),
	}
	if art != "" {
		lines = append(lines, colored(r.randomColor()).Render(art))
	}
	lines = append(lines,
		r.styles.title.Render("Welcome to this unique BBS experience!"),
		r.styles.title.Render("Each time you connect, a new randomly generated BBS awaits..."),
		"",
	)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *Renderer) LoginHeader() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		r.rule("="),
		r.styles.title.Render("LOGIN REQUIRED"),
		r.rule("="),
	)
}

func (r *Renderer) HandlePrompt() string {
	return r.styles.label.Render("Enter your handle: ")
}

func (r *Renderer) LoginAccepted(handle string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		r.styles.title.Render("Validating user credentials..."),
		r.styles.prompt.Render("Welcome aboard, ")+r.styles.value.Render(handle)+r.styles.prompt.Render("!"),
	)
}

// MainMenu renders the five top-level options in a randomly chosen layout.
func (r *Renderer) MainMenu() string {
	return r.MainMenuStyled(MenuStyle(r.pick(int(menuStyleCount))))
}

func (r *Renderer) MainMenuStyled(style MenuStyle) string {
	title := colored(r.randomColor()).Bold(true)
	number := colored(r.randomColor())
	option := colored(r.randomColor())

	lines := make([]string, 0, len(mainMenuOptions)+4)
	switch style {
	case MenuBoxed:
		box := make([]string, 0, len(mainMenuOptions))
		for i, name := range mainMenuOptions {
			box = append(box, number.Render(fmt.Sprintf("%d. ", i+1))+option.Render(name))
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			title.Render("  MAIN MENU"),
			lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(r.randomColor()).Padding(0, 1).
				Render(lipgloss.JoinVertical(lipgloss.Left, box...)),
		)
	case MenuArrow:
		lines = append(lines, title.Render(">>> MAIN MENU <<<"), strings.Repeat("-", 18))
		for i, name := range mainMenuOptions {
			lines = append(lines, number.Render(strconv.Itoa(i+1))+" -> "+option.Render(name))
		}
		lines = append(lines, strings.Repeat("-", 18))
	case MenuRetro:
		bar := title.Render(strings.Repeat("■", 24))
		lines = append(lines, bar, title.Render("■ BBS COMMAND CENTER ■"), bar)
		for i, name := range mainMenuOptions {
			lines = append(lines, option.Render("  [")+number.Render(strconv.Itoa(i+1))+option.Render("] "+name))
		}
		lines = append(lines, bar)
	default:
		lines = append(lines, title.Render("==== MAIN MENU ===="))
		for i, name := range mainMenuOptions {
			lines = append(lines, number.Render(fmt.Sprintf("%d. ", i+1))+option.Render(name))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *Renderer) MenuPrompt() string {
	return "\n" + r.styles.prompt.Render(menuPrompts[r.pick(len(menuPrompts))])
}

func (r *Renderer) Prompt(text string) string {
	return "\n" + r.styles.prompt.Render(text)
}

// List renders a numbered list followed by a "Return to Main Menu" entry.
func (r *Renderer) List(title, caption string, items []string) string {
	lines := []string{r.heading(title), r.styles.prompt.Render(caption), ""}
	for i, item := range items {
		lines = append(lines, r.styles.number.Render(fmt.Sprintf("%d. ", i+1))+r.styles.option.Render(item))
	}
	lines = append(lines, r.styles.number.Render(fmt.Sprintf("%d. ", len(items)+1))+r.styles.option.Render("Return to Main Menu"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *Renderer) BoardList(boards []string) string {
	return r.List("MESSAGE BOARDS", "Available message boards:", boards)
}

func (r *Renderer) CategoryList(categories []string) string {
	return r.List("FILE ARCHIVES", "Available file categories:", categories)
}

// Message renders one post; index is zero-based.
func (r *Renderer) Message(board string, index, total int, message domain.BoardMessage) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		r.heading(board),
		r.rule("="),
		r.field("Message", fmt.Sprintf("#%d of %d", index+1, total), r.styles.value),
		r.field("From", message.Author, r.styles.author),
		r.field("Date", message.Date, r.styles.author),
		r.field("Subject", message.Subject, r.styles.value),
		r.rule("="),
		r.styles.body.Render(message.Content),
		r.rule("="),
		r.styles.label.Render("N")+r.styles.prompt.Render("ext message, ")+
			r.styles.label.Render("Q")+r.styles.prompt.Render("uit to board list"),
	)
}

func (r *Renderer) FileTable(category string, files []domain.FileEntry) string {
	rows := make([][]string, 0, len(files))
	for i, file := range files {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			file.Name,
			file.Size,
			file.Date,
			strconv.Itoa(file.Downloads),
		})
	}

	columns := []lipgloss.Style{r.styles.number, r.styles.option, r.styles.size, r.styles.author, r.styles.count}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.styles.rule).
		Headers("#", "Filename", "Size", "Date", "Downloads").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.styles.label.Bold(true).Padding(0, 1)
			}
			return columns[col%len(columns)].Padding(0, 1)
		})

	return lipgloss.JoinVertical(lipgloss.Left,
		r.heading(category+" Files"),
		t.String(),
		r.styles.label.Render("Enter file number to view details, Q to return"),
	)
}

func (r *Renderer) FileDetails(category string, file domain.FileEntry) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		r.heading("File Details"),
		r.rule("="),
		r.field("Filename", file.Name, r.styles.value),
		r.field("Category", category, r.styles.value),
		r.field("Size", file.Size, r.styles.size),
		r.field("Uploaded", file.Date, r.styles.author),
		r.field("Downloads", strconv.Itoa(file.Downloads), r.styles.count),
		r.field("Uploaded by", file.Uploader, r.styles.author),
		r.rule("-"),
		r.styles.label.Render("Description:"),
		r.styles.body.Render(file.Description),
		r.rule("="),
		r.styles.label.Render("D")+r.styles.prompt.Render("ownload file, ")+
			r.styles.label.Render("Q")+r.styles.prompt.Render("uit to file list"),
	)
}

func (r *Renderer) DownloadHeader(file domain.FileEntry) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		r.heading("Downloading File"),
		r.rule("="),
		r.field("Downloading", file.Name, r.styles.value),
		r.field("Size", file.Size, r.styles.size),
	)
}

func (r *Renderer) DownloadComplete(result application.DownloadResult) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		r.styles.prompt.Render("Download complete!"),
		r.styles.notice.Render(result.Quip),
	)
}

func (r *Renderer) DoorList(game domain.DoorGame) string {
	return r.List("DOOR GAMES", "Available games:", []string{game.Name})
}

// DoorTitle is the title card shown before the game fails to start.
func (r *Renderer) DoorTitle(game domain.DoorGame) string {
	accent := r.randomColor()
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Border(lipgloss.ThickBorder()).BorderForeground(accent).
			Foreground(r.randomColor()).Padding(1, 4).Render(strings.ToUpper(game.Name)),
		colored(accent).Render(strings.Repeat("=", lineWidth)),
		r.styles.label.Render(fmt.Sprintf("© %d %s", game.Year, game.Company)),
		r.styles.label.Render("All rights reserved"),
		colored(accent).Render(strings.Repeat("=", lineWidth)),
		r.styles.tagline.Foreground(lipgloss.Color("226")).Render(game.Tagline),
		"",
	)
}

func (r *Renderer) DoorFailure(message string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		r.styles.errorMsg.Render("* * * SYSTEM ERROR * * *"),
		r.styles.errorMsg.UnsetBold().Render(message),
		"",
		r.styles.notice.Render("This door game is temporarily out of order."),
		r.styles.notice.Render("The SysOp has been notified and promises to fix it"),
		r.styles.notice.Render("right after finishing this pizza and Mountain Dew."),
	)
}

func (r *Renderer) ChatHeader() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		r.heading("CHAT WITH SYSOP"),
		r.rule("="),
		r.styles.notice.Render("Establishing direct connection to SysOp terminal..."),
		r.styles.prompt.Render("Connection established!"),
	)
}

func (r *Renderer) SysopLine(sysop, message string) string {
	return colored(r.randomColor()).Render("["+sysop+"]: ") + r.styles.label.Render(message)
}

func (r *Renderer) UserPrompt(handle string) string {
	return r.styles.prompt.Render("[" + handle + "]: ")
}

func (r *Renderer) ChatClosed() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		r.styles.notice.Render("Disconnecting from SysOp terminal..."),
		r.styles.errorMsg.UnsetBold().Render("Connection terminated."),
	)
}

func (r *Renderer) Logoff() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		r.styles.title.Render("Logging off from BBScapade..."),
		r.styles.prompt.Render("Thank you for visiting BBScapade!"),
		r.styles.prompt.Render("Call back anytime for a new BBS experience!"),
		"",
	)
}

// NoCarrier is printed by every disconnect path.
func (r *Renderer) NoCarrier() string {
	return r.styles.notice.Render("NO CARRIER")
}

func (r *Renderer) Interrupted() string {
	return "\n" + r.styles.notice.Render("Disconnecting from BBScapade...")
}

func (r *Renderer) Notice(text string) string {
	return r.styles.notice.Render(text)
}

func (r *Renderer) Invalid(text string) string {
	return r.styles.errorMsg.UnsetBold().Render(text)
}

func (r *Renderer) PressEnter(destination string) string {
	return "\n" + r.styles.prompt.Render("Press Enter to "+destination+"...")
}

func (r *Renderer) Retrying(event application.RetryEvent) string {
	return r.styles.warning.Render(fmt.Sprintf("Line noise detected, redialing in %.1fs (attempt %d/%d)...",
		event.Delay.Seconds(), event.Attempt+1, event.MaxRetries))
}

// Degraded notes that some content came from the local archive.
func (r *Renderer) Degraded(outcome application.Outcome) string {
	if !outcome.Degraded() {
		return ""
	}
	if outcome.Generated == 0 {
		return r.styles.warning.Render("[ remote node unreachable, serving from the local archive ]")
	}
	return r.styles.warning.Render(fmt.Sprintf("[ %d of %d entries restored from the local archive ]",
		outcome.Fallback, outcome.Generated+outcome.Fallback))
}
