package core

// error_messages.go maps technical errors to user-facing messages with codes
// that can be quoted in bug reports.
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - CSV file not found
//	SRC002 - CSV file too large
//	SRC003 - CSV path is not a regular file
//	SRC004 - CSV file could not be read (permissions, I/O)
//
// # Generation Errors (GEN001-GEN099)
//
//	GEN001 - Output directory could not be created
//	GEN002 - Output file could not be written
//	GEN003 - A generation run is already in progress
//
// # Server Errors (SRV001-SRV099)
//
//	SRV001 - Requested file does not exist
//	SRV002 - Run history is not configured
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request was cancelled
//	REQ002 - Request timed out
//	REQ003 - Too many generation requests
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the logs for the technical error.
//
// Patterns are matched case-insensitively with strings.Contains; the first
// match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Reference code
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Source
	{
		pattern: ErrSourceNotFound.Error(),
		msg: UserMessage{
			Message: "CSV file not found",
			Action:  "Place website.csv in the working directory or set CSV_PATH",
			Code:    "SRC001",
		},
	},
	{
		pattern: ErrSourceTooLarge.Error(),
		msg: UserMessage{
			Message: "CSV file exceeds the size limit",
			Action:  "Split the file or raise GENERATE_MAX_FILE_SIZE",
			Code:    "SRC002",
		},
	},
	{
		pattern: ErrSourceNotFile.Error(),
		msg: UserMessage{
			Message: "CSV path does not point to a file",
			Action:  "Check that CSV_PATH names a .csv file, not a directory",
			Code:    "SRC003",
		},
	},
	{
		pattern: "read source",
		msg: UserMessage{
			Message: "CSV file could not be read",
			Action:  "Check file permissions and try again",
			Code:    "SRC004",
		},
	},
	{
		pattern: "open source",
		msg: UserMessage{
			Message: "CSV file could not be read",
			Action:  "Check file permissions and try again",
			Code:    "SRC004",
		},
	},

	// Generation
	{
		pattern: "create directory",
		msg: UserMessage{
			Message: "Output directory could not be created",
			Action:  "Check that BUILD_DIR is writable",
			Code:    "GEN001",
		},
	},
	{
		pattern: "write file",
		msg: UserMessage{
			Message: "Output file could not be written",
			Action:  "Check disk space and permissions on BUILD_DIR",
			Code:    "GEN002",
		},
	},
	{
		pattern: ErrRunInProgress.Error(),
		msg: UserMessage{
			Message: "A generation run is already in progress",
			Action:  "Wait for the current run to finish and try again",
			Code:    "GEN003",
		},
	},

	// Server
	{
		pattern: "file not found",
		msg: UserMessage{
			Message: "Not Found",
			Action:  "Check the site name in the URL",
			Code:    "SRV001",
		},
	},
	{
		pattern: "history disabled",
		msg: UserMessage{
			Message: "Run history is not configured",
			Action:  "Set DATABASE_URL to record generation runs",
			Code:    "SRV002",
		},
	},

	// Request lifecycle
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try again or raise GENERATE_TIMEOUT",
			Code:    "REQ002",
		},
	},
	{
		pattern: "rate limit exceeded",
		msg: UserMessage{
			Message: "Too many generation requests",
			Action:  "Wait a minute and try again",
			Code:    "REQ003",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for details",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the zero UserMessage for a nil error and ERR000 when nothing matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError formats err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
