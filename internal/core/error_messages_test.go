package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "wrapped source not found",
			err:         fmt.Errorf("%w: website.csv", ErrSourceNotFound),
			wantCode:    "SRC001",
			wantMessage: "CSV file not found",
		},
		{
			name:        "source too large",
			err:         fmt.Errorf("%w: 99 bytes", ErrSourceTooLarge),
			wantCode:    "SRC002",
			wantMessage: "CSV file exceeds the size limit",
		},
		{
			name:        "source is directory",
			err:         fmt.Errorf("%w: build", ErrSourceNotFile),
			wantCode:    "SRC003",
			wantMessage: "CSV path does not point to a file",
		},
		{
			name:        "read failure",
			err:         errors.New("read source a.csv: permission denied"),
			wantCode:    "SRC004",
			wantMessage: "CSV file could not be read",
		},
		{
			name:        "write failure",
			err:         errors.New("write file build/a/index.html: no space left on device"),
			wantCode:    "GEN002",
			wantMessage: "Output file could not be written",
		},
		{
			name:        "run in progress",
			err:         ErrRunInProgress,
			wantCode:    "GEN003",
			wantMessage: "A generation run is already in progress",
		},
		{
			name:        "deadline exceeded",
			err:         fmt.Errorf("generate: %w", context.DeadlineExceeded),
			wantCode:    "REQ002",
			wantMessage: "Request timed out",
		},
		{
			name:        "rate limited",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "REQ003",
			wantMessage: "Too many generation requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("SOURCE NOT FOUND"),
			wantCode:    "SRC001",
			wantMessage: "CSV file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(fmt.Errorf("%w: website.csv", ErrSourceNotFound))
	want := "CSV file not found (Code: SRC001). Place website.csv in the working directory or set CSV_PATH"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known error is user facing", ErrSourceNotFound, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
