package constants

import "time"

const (
	AppName            = "weekmenu"
	DefaultKeyringUser = "access-token"
	DefaultConfigDir   = "~/.config/weekmenu"
	DefaultIndexPath   = "~/.config/weekmenu/recipes.db"
	DefaultAPIURL      = "http://localhost:8000/"
	Version            = "v0.3.0"

	// Log verbosity values accepted by --log-level
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
	LogLevelNone  = "none"

	// Suggestion sources accepted by --suggest
	SuggestSourceAPI   = "api"
	SuggestSourceIndex = "index"

	// SuggestionLimit caps how many names a single suggestion query returns
	SuggestionLimit = 20

	// RequestIDHeader carries a per-request uuid for log correlation
	RequestIDHeader = "X-Request-ID"

	// TimestampFormat is how sync times are shown
	TimestampFormat = "2006-01-02 15:04"

	// DefaultLoginTimeout bounds the interactive login round-trip
	DefaultLoginTimeout = 30 * time.Second
)

// API paths, relative to the configured base URL
const (
	PathLogin              = "api/login"
	PathLoginRefresh       = "api/login/refresh"
	PathWeekMenu           = "api/home/getToweekMenuPlanDetListDict"
	PathSubmitEdit         = "api/home/submitEditToweekMenuPlanDet"
	PathSubmitDelete       = "api/home/submitDeleteToweekMenuPlanDet/query_params"
	PathSubmitAdd          = "api/home/submitAddToweekMenuPlanDet"
	PathRecipeSuggestions  = "api/home/getRecipeNmSuggestions"
	PathRecipeNameList     = "api/recipes/getRecipeNmList"
	QueryMenuPlanDetID     = "toweek_menu_plan_det_id"
	QueryRecipeNamePartial = "recipe_nm"
)
