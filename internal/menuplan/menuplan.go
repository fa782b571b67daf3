package menuplan

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/julianstephens/weekmenu/internal/apiclient"
	"github.com/julianstephens/weekmenu/internal/constants"
	"github.com/julianstephens/weekmenu/internal/logger"
	"github.com/julianstephens/weekmenu/internal/models"
)

// ErrEmptyRecipeName is returned when an edit or add carries no name.
var ErrEmptyRecipeName = errors.New("recipe name cannot be empty")

// Caller is the part of the request pipeline the service needs.
type Caller interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, in, out interface{}) error
	Put(ctx context.Context, path string, in, out interface{}) error
	Delete(ctx context.Context, path string, query url.Values, out interface{}) error
}

var _ Caller = (*apiclient.Client)(nil)

// Service talks to the week menu endpoints.
type Service struct {
	api Caller
}

// New creates a Service on top of the request pipeline.
func New(api Caller) *Service {
	return &Service{api: api}
}

// mutationResponse is the body every week menu endpoint answers with.
type mutationResponse struct {
	Message string              `json:"message"`
	Week    models.MenuListDict `json:"toweekMenuPlanDetListDict"`
}

type editRequest struct {
	ID         int64  `json:"toweekMenuPlanDetId"`
	RecipeName string `json:"recipeNm"`
}

type addRequest struct {
	Weekday    models.WeekdayCode `json:"weekdayCd"`
	RecipeName string             `json:"recipeNm"`
}

// FetchWeek loads the current week.
func (s *Service) FetchWeek(ctx context.Context) (models.MenuListDict, error) {
	var resp mutationResponse
	if err := s.api.Get(ctx, constants.PathWeekMenu, nil, &resp); err != nil {
		return nil, err
	}
	return normalize(resp.Week), nil
}

// EditEntry assigns a recipe name to an existing entry.
func (s *Service) EditEntry(ctx context.Context, id int64, recipeName string) (models.MenuListDict, error) {
	recipeName = strings.TrimSpace(recipeName)
	if recipeName == "" {
		return nil, ErrEmptyRecipeName
	}
	var resp mutationResponse
	if err := s.api.Put(ctx, constants.PathSubmitEdit, editRequest{ID: id, RecipeName: recipeName}, &resp); err != nil {
		return nil, err
	}
	s.logMessage(resp.Message, "id", id, "recipe", recipeName)
	return normalize(resp.Week), nil
}

// DeleteEntry removes an entry.
func (s *Service) DeleteEntry(ctx context.Context, id int64) (models.MenuListDict, error) {
	query := url.Values{constants.QueryMenuPlanDetID: {strconv.FormatInt(id, 10)}}
	var resp mutationResponse
	if err := s.api.Delete(ctx, constants.PathSubmitDelete, query, &resp); err != nil {
		return nil, err
	}
	s.logMessage(resp.Message, "id", id)
	return normalize(resp.Week), nil
}

// AddEntry plans a recipe on a weekday.
func (s *Service) AddEntry(ctx context.Context, day models.WeekdayCode, recipeName string) (models.MenuListDict, error) {
	if !day.Valid() {
		return nil, fmt.Errorf("invalid weekday code %q", day)
	}
	recipeName = strings.TrimSpace(recipeName)
	if recipeName == "" {
		return nil, ErrEmptyRecipeName
	}
	var resp mutationResponse
	if err := s.api.Post(ctx, constants.PathSubmitAdd, addRequest{Weekday: day, RecipeName: recipeName}, &resp); err != nil {
		return nil, err
	}
	s.logMessage(resp.Message, "weekday", day, "recipe", recipeName)
	return normalize(resp.Week), nil
}

// RecipeNames lists every recipe name the server knows.
func (s *Service) RecipeNames(ctx context.Context) ([]string, error) {
	var resp struct {
		Names []string `json:"recipeNmList"`
	}
	if err := s.api.Get(ctx, constants.PathRecipeNameList, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Names, nil
}

func (s *Service) logMessage(message string, keyvals ...interface{}) {
	if message == "" {
		return
	}
	logger.Info(message, keyvals...)
}

// normalize never returns a nil dict so callers can index it freely.
func normalize(week models.MenuListDict) models.MenuListDict {
	if week == nil {
		return models.MenuListDict{}
	}
	return week
}
