// Package console is a line-oriented driver for the session and browser services.
// It renders state snapshots as they change and forwards typed commands.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dtroode/pokedex-client/internal/logger"
	"github.com/dtroode/pokedex-client/internal/model"
	"github.com/dtroode/pokedex-client/internal/stream"
)

// SessionController is the part of the session service the console drives.
type SessionController interface {
	UpdateLoginForm(form model.LoginForm)
	Login()
	UpdateRegisterForm(form model.RegisterForm)
	Register()
	ResetRegisterForm()
	Logout()
	LoadProfile()
	LoginState() *stream.Stream[model.LoginState]
	RegisterState() *stream.Stream[model.RegisterState]
	ProfileState() *stream.Stream[model.ProfileState]
	IsAuthenticated() *stream.Stream[bool]
}

// BrowserController is the part of the browser service the console drives.
type BrowserController interface {
	LoadMore()
	UpdateSearchQuery(text string)
	LoadDetail(idOrName string)
	ClearDetail()
	BrowseState() *stream.Stream[model.BrowseState]
	DetailState() *stream.Stream[*model.DetailState]
	Filtered() *stream.Stream[[]model.Summary]
}

const help = `commands:
  login <email> <password>
  register <username> <email> <password> <confirm>
  logout
  profile
  list              show loaded (and filtered) entries
  more              load the next page
  search [text]     filter loaded entries, empty text clears
  show <id|name>    load details
  close             close details
  help
  quit`

type Console struct {
	session SessionController
	browser BrowserController
	logger  *logger.Logger

	mu  sync.Mutex // guards out
	out io.Writer
}

func New(session SessionController, browser BrowserController, out io.Writer, logger *logger.Logger) *Console {
	return &Console{
		session: session,
		browser: browser,
		logger:  logger,
		out:     out,
	}
}

// Run renders state changes and executes commands read from in until quit,
// end of input or ctx cancellation.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	unsubscribe := c.subscribe()
	defer unsubscribe()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	c.printf("%s\n", help)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("failed to read input: %w", err)
					}
				default:
				}
				return nil
			}
			if !c.Execute(line) {
				return nil
			}
		}
	}
}

// Execute runs a single command line. It returns false when the user asked to quit.
func (c *Console) Execute(line string) bool {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	args := strings.Fields(rest)

	c.logger.Debug("Console: command received",
		"command", cmd)

	switch strings.ToLower(cmd) {
	case "":
	case "quit", "exit":
		return false
	case "help":
		c.printf("%s\n", help)
	case "login":
		if len(args) != 2 {
			c.printf("usage: login <email> <password>\n")
			return true
		}
		c.session.UpdateLoginForm(model.LoginForm{Username: &args[0], Password: &args[1]})
		c.session.Login()
	case "register":
		if len(args) != 4 {
			c.printf("usage: register <username> <email> <password> <confirm>\n")
			return true
		}
		c.session.ResetRegisterForm()
		c.session.UpdateRegisterForm(model.RegisterForm{
			Username:        &args[0],
			Email:           &args[1],
			Password:        &args[2],
			ConfirmPassword: &args[3],
		})
		c.session.Register()
	case "logout":
		c.session.Logout()
	case "profile":
		c.session.LoadProfile()
	case "list":
		c.renderList(c.browser.Filtered().Value())
	case "more":
		c.browser.LoadMore()
	case "search":
		c.browser.UpdateSearchQuery(strings.TrimSpace(rest))
		c.renderList(c.browser.Filtered().Value())
	case "show":
		if len(args) != 1 {
			c.printf("usage: show <id|name>\n")
			return true
		}
		c.browser.LoadDetail(args[0])
	case "close":
		c.browser.ClearDetail()
	default:
		c.printf("unknown command %q, type help\n", cmd)
	}
	return true
}

func (c *Console) subscribe() func() {
	cancels := []func(){
		c.session.IsAuthenticated().Subscribe(func(ok bool) {
			if ok {
				c.printf("[session] signed in\n")
			} else {
				c.printf("[session] signed out\n")
			}
		}),
		c.session.LoginState().Subscribe(func(st model.LoginState) {
			switch {
			case st.Loading:
				c.printf("[login] signing in...\n")
			case st.Error != "":
				c.printf("[login] %s\n", st.Error)
			}
		}),
		c.session.RegisterState().Subscribe(func(st model.RegisterState) {
			switch {
			case st.Loading:
				c.printf("[register] creating account...\n")
			case st.Error != "":
				c.printf("[register] %s\n", st.Error)
			case st.Success:
				c.printf("[register] account created, you can login now\n")
			}
		}),
		c.session.ProfileState().Subscribe(func(st model.ProfileState) {
			switch {
			case st.Loading:
			case st.Error != "":
				c.printf("[profile] %s\n", st.Error)
			case st.Identity != nil:
				c.printf("[profile] %s <%s> since %s\n",
					st.Identity.DisplayName, st.Identity.Email, st.Identity.CreatedAt.Format("2006-01-02"))
			}
		}),
		c.browser.BrowseState().Subscribe(func(st model.BrowseState) {
			switch {
			case st.Loading:
				c.printf("[browse] loading...\n")
			case st.Error != "":
				c.printf("[browse] %s\n", st.Error)
			default:
				more := ""
				if st.CanLoadMore {
					more = ", type more for the next page"
				}
				c.printf("[browse] %d loaded%s\n", len(st.Items), more)
			}
		}),
		c.browser.DetailState().Subscribe(func(st *model.DetailState) {
			switch {
			case st == nil:
			case st.Loading:
				c.printf("[detail] loading...\n")
			case st.Error != "":
				c.printf("[detail] %s\n", st.Error)
			case st.Item != nil:
				c.renderDetail(st.Item)
			}
		}),
	}

	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}

func (c *Console) renderList(items []model.Summary) {
	if len(items) == 0 {
		c.printf("(no entries)\n")
		return
	}
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "%5s  %s\n", "#"+it.ID(), it.Name)
	}
	c.printf("%s", b.String())
}

func (c *Console) renderDetail(d *model.Detail) {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s  height %d  weight %d  base xp %d\n", d.ID, d.Name, d.Height, d.Weight, d.BaseExperience)

	types := make([]string, 0, len(d.Types))
	for _, t := range d.Types {
		types = append(types, t.Name)
	}
	fmt.Fprintf(&b, "  types: %s\n", strings.Join(types, ", "))

	abilities := make([]string, 0, len(d.Abilities))
	for _, a := range d.Abilities {
		if a.IsHidden {
			abilities = append(abilities, a.Name+" (hidden)")
			continue
		}
		abilities = append(abilities, a.Name)
	}
	fmt.Fprintf(&b, "  abilities: %s\n", strings.Join(abilities, ", "))

	for _, s := range d.Stats {
		fmt.Fprintf(&b, "  %-16s %3d\n", s.Name, s.BaseStat)
	}
	if d.Sprites.Artwork != "" {
		fmt.Fprintf(&b, "  artwork: %s\n", d.Sprites.Artwork)
	}
	c.printf("%s", b.String())
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}
