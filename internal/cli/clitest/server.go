package clitest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/julianstephens/weekmenu/internal/cli"
	"github.com/julianstephens/weekmenu/internal/constants"
	"github.com/julianstephens/weekmenu/internal/credential"
	"github.com/julianstephens/weekmenu/internal/models"
	"github.com/julianstephens/weekmenu/internal/prompt"
)

const (
	Username = "cook"
	Password = "s3cret"
	Token    = "token-1"
)

// Server is a fake menu API backed by an in-memory week.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	week    models.MenuListDict
	recipes []string
	nextID  int64
	calls   []string
}

// NewServer starts a server holding week and knowing recipes. It is closed
// when the test ends.
func NewServer(t *testing.T, week models.MenuListDict, recipes ...string) *Server {
	t.Helper()
	if week == nil {
		week = models.MenuListDict{}
	}
	s := &Server{week: week, recipes: recipes, nextID: 100}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Calls lists the mutations received, as "edit:<id>:<name>", "delete:<id>"
// and "add:<day>:<name>".
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *Server) Week() models.MenuListDict {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.week.Clone()
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")

	if path == constants.PathLogin {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Username != Username || body.Password != Password {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid username or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"accessToken": Token})
		return
	}

	if r.Header.Get("Authorization") != "Bearer "+Token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && path == constants.PathWeekMenu:
		s.writeWeek(w, "")
	case r.Method == http.MethodGet && path == constants.PathRecipeSuggestions:
		s.writeSuggestions(w, r.URL.Query().Get(constants.QueryRecipeNamePartial))
	case r.Method == http.MethodGet && path == constants.PathRecipeNameList:
		writeJSON(w, http.StatusOK, map[string][]string{"recipeNmList": s.recipes})
	case r.Method == http.MethodPut && path == constants.PathSubmitEdit:
		var body struct {
			ID         int64  `json:"toweekMenuPlanDetId"`
			RecipeName string `json:"recipeNm"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if !s.known(body.RecipeName) {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Recipe not found"})
			return
		}
		for day, entries := range s.week {
			for i := range entries {
				if entries[i].ID == body.ID {
					s.week[day][i].RecipeName = body.RecipeName
				}
			}
		}
		s.calls = append(s.calls, "edit:"+strconv.FormatInt(body.ID, 10)+":"+body.RecipeName)
		s.writeWeek(w, "Menu updated")
	case r.Method == http.MethodDelete && path == constants.PathSubmitDelete:
		id, _ := strconv.ParseInt(r.URL.Query().Get(constants.QueryMenuPlanDetID), 10, 64)
		for day, entries := range s.week {
			kept := make([]models.MenuEntry, 0, len(entries))
			for _, e := range entries {
				if e.ID != id {
					kept = append(kept, e)
				}
			}
			s.week[day] = kept
		}
		s.calls = append(s.calls, "delete:"+strconv.FormatInt(id, 10))
		s.writeWeek(w, "Menu entry deleted")
	case r.Method == http.MethodPost && path == constants.PathSubmitAdd:
		var body struct {
			Weekday    models.WeekdayCode `json:"weekdayCd"`
			RecipeName string             `json:"recipeNm"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.nextID++
		s.week[body.Weekday] = append(s.week[body.Weekday], models.MenuEntry{
			ID:         s.nextID,
			Weekday:    body.Weekday,
			RecipeName: body.RecipeName,
		})
		s.calls = append(s.calls, "add:"+string(body.Weekday)+":"+body.RecipeName)
		s.writeWeek(w, "Menu entry added")
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	}
}

func (s *Server) known(name string) bool {
	for _, r := range s.recipes {
		if r == name {
			return true
		}
	}
	return false
}

func (s *Server) writeWeek(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":                   message,
		"toweekMenuPlanDetListDict": s.week,
	})
}

func (s *Server) writeSuggestions(w http.ResponseWriter, partial string) {
	names := []string{}
	for _, r := range s.recipes {
		if strings.Contains(strings.ToLower(r), strings.ToLower(partial)) {
			names = append(names, r)
		}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"recipeNmSuggestions": names})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Options tweak the context built by NewContext.
type Options struct {
	LoggedOut bool
	Config    cli.Config
	Answers   []bool
}

// Env is a command context plus its captured output.
type Env struct {
	Ctx       *cli.Context
	Out       *bytes.Buffer
	Err       *bytes.Buffer
	Confirmer *prompt.ScriptedConfirmer
}

// NewContext wires a command context against s. Confirmations replay
// opts.Answers; with no answers every prompt is answered yes.
func NewContext(t *testing.T, s *Server, opts Options) *Env {
	t.Helper()
	store := credential.NewMemoryStore()
	if !opts.LoggedOut {
		_ = store.Set(Token)
	}

	cfg := opts.Config
	cfg.APIURL = s.URL
	if cfg.Index == "" {
		cfg.Index = t.TempDir() + "/recipes.db"
	}

	ctx, err := cli.NewContext(context.Background(), cfg, store)
	if err != nil {
		t.Fatalf("cli.NewContext() error = %v", err)
	}

	answers := opts.Answers
	if answers == nil {
		answers = []bool{true, true, true, true}
	}
	env := &Env{
		Ctx:       ctx,
		Out:       &bytes.Buffer{},
		Err:       &bytes.Buffer{},
		Confirmer: prompt.NewScriptedConfirmer(answers...),
	}
	ctx.Out, ctx.Err, ctx.Confirmer = env.Out, env.Err, env.Confirmer
	return env
}
