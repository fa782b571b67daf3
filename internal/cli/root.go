package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/weekmenu/internal/apiclient"
	"github.com/julianstephens/weekmenu/internal/constants"
	"github.com/julianstephens/weekmenu/internal/credential"
	"github.com/julianstephens/weekmenu/internal/menuplan"
	"github.com/julianstephens/weekmenu/internal/prompt"
	"github.com/julianstephens/weekmenu/internal/recipeindex"
	"github.com/julianstephens/weekmenu/internal/recipeindex/postgres"
	"github.com/julianstephens/weekmenu/internal/rowedit"
	"github.com/julianstephens/weekmenu/internal/session"
	"github.com/julianstephens/weekmenu/internal/suggest"
)

// ErrNotLoggedIn is returned by commands that need a session.
var ErrNotLoggedIn = errors.New("not logged in, run 'weekmenu login' first")

// Config is the resolved set of global flags.
type Config struct {
	APIURL    string
	Timeout   time.Duration
	LogLevel  string
	ConfigDir string
	Index     string
	Suggest   string
	Yes       bool
}

type Context struct {
	Config  Config
	Session *session.Manager
	API     *apiclient.Client
	Menu    *menuplan.Service
	Out     io.Writer
	Err     io.Writer

	// Confirmer replaces the prompt chosen from Config.Yes when set.
	Confirmer rowedit.Confirmer
	// Clock replaces time.Now when set.
	Clock func() time.Time

	ctx context.Context
}

// NewContext wires the session, the API client and the menu service.
func NewContext(ctx context.Context, cfg Config, store credential.Store) (*Context, error) {
	if store == nil {
		return nil, errors.New("credential store is required")
	}
	switch cfg.Suggest {
	case "", constants.SuggestSourceAPI, constants.SuggestSourceIndex:
	default:
		return nil, fmt.Errorf("unknown suggestion source %q (want %s or %s)", cfg.Suggest, constants.SuggestSourceAPI, constants.SuggestSourceIndex)
	}
	if cfg.Index != "" && !postgres.IsConnString(cfg.Index) {
		cfg.Index = kong.ExpandPath(cfg.Index)
	}

	sess := session.NewManager(store)
	api, err := apiclient.New(apiclient.Config{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.Timeout,
		Verbosity: cfg.LogLevel,
	}, sess)
	if err != nil {
		return nil, err
	}

	return &Context{
		Config:  cfg,
		Session: sess,
		API:     api,
		Menu:    menuplan.New(api),
		Out:     os.Stdout,
		Err:     os.Stderr,
		ctx:     ctx,
	}, nil
}

// Context returns the context commands run under.
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

func (c *Context) Now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

// RequireLogin fails fast when there is no session to send requests with.
func (c *Context) RequireLogin() error {
	if c.Session == nil || !c.Session.Authenticated() {
		return ErrNotLoggedIn
	}
	return nil
}

// Confirm returns the confirmer for this run.
func (c *Context) Confirm() rowedit.Confirmer {
	switch {
	case c.Confirmer != nil:
		return c.Confirmer
	case c.Config.Yes:
		return prompt.AutoConfirmer{Answer: true}
	default:
		return prompt.NewHuhConfirmer(nil, nil)
	}
}

func (c *Context) Messenger() *prompt.ConsoleMessenger {
	return prompt.NewConsoleMessenger(c.Err)
}

// OpenIndex opens and migrates the recipe index. The caller closes it.
func (c *Context) OpenIndex(ctx context.Context) (recipeindex.Provider, error) {
	location := c.Config.Index
	if location == "" {
		location = kong.ExpandPath(constants.DefaultIndexPath)
	}
	p, err := recipeindex.Open(location)
	if err != nil {
		return nil, err
	}
	if err := p.Init(ctx); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to open recipe index: %w", err)
	}
	return p, nil
}

// SuggestionSource picks the source named by --suggest. The returned func
// releases it.
func (c *Context) SuggestionSource(ctx context.Context) (suggest.Source, func(), error) {
	if strings.EqualFold(c.Config.Suggest, constants.SuggestSourceIndex) {
		p, err := c.OpenIndex(ctx)
		if err != nil {
			return nil, nil, err
		}
		return suggest.NewIndexSource(p, constants.SuggestionLimit), func() { _ = p.Close() }, nil
	}
	return suggest.NewAPISource(c.API), func() {}, nil
}

// NewBoard builds the seven column controllers over an empty week. The
// caller loads it.
func (c *Context) NewBoard(ctx context.Context, confirm rowedit.Confirmer, messages rowedit.Messenger) (*rowedit.Board, func(), error) {
	source, release, err := c.SuggestionSource(ctx)
	if err != nil {
		return nil, nil, err
	}
	board, err := rowedit.NewBoard(rowedit.Deps{
		Service:     c.Menu,
		Suggestions: source,
		Confirmer:   confirm,
		Messenger:   messages,
	})
	if err != nil {
		release()
		return nil, nil, err
	}
	return board, release, nil
}
