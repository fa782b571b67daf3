package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/weekmenu/internal/apiclient"
	"github.com/julianstephens/weekmenu/internal/constants"
	"github.com/julianstephens/weekmenu/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix.
// Pipeline errors are rendered with the same fallback policy the editor uses,
// plus a login hint when the session was dropped.
func Format(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		msg := fmt.Sprintf("Error: %s", apiclient.UserMessage(err))
		if apiclient.IsAuthError(err) {
			msg += fmt.Sprintf("\n%s Run '%s login'.", constants.MsgLoggedOut, constants.AppName)
		}
		return msg
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
