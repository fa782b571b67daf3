package constants

// User-facing messages
const (
	MsgTimeout        = "The request timed out. Please try again later."
	MsgMissingRequest = "The request could not be completed."
	MsgLoggedOut      = "Your session has ended. Please log in again."

	// Confirmation prompts. Every mutation of the week menu is reflected in the
	// shopping list on the server, so the prompts say so.
	MsgConfirmEdit   = "Apply this change to the shopping list?"
	MsgConfirmDelete = "Delete this menu entry?"
	MsgConfirmAdd    = "Add this dish to the shopping list?"
)
