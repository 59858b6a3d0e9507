package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"
)

func TestLogError_Error(t *testing.T) {
	err := &LogError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "log not found",
	}

	expected := "NOT_FOUND: log not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("path is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "path is required" {
		t.Errorf("Message = %q, want %q", err.Message, "path is required")
	}
}

func TestNewInvalidKind(t *testing.T) {
	err := NewInvalidKind("XX")

	if err.Code != ErrInvalidKind {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidKind)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Details["kind"] != "XX" {
		t.Errorf("Details[kind] = %v, want %q", err.Details["kind"], "XX")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("01ABC")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["id"] != "01ABC" {
		t.Errorf("Details[id] = %v, want %q", err.Details["id"], "01ABC")
	}
}

func TestNewTooManyLogs(t *testing.T) {
	err := NewTooManyLogs(8)

	if err.Code != ErrTooManyLogs {
		t.Errorf("Code = %q, want %q", err.Code, ErrTooManyLogs)
	}
	if err.Details["max_sessions"] != 8 {
		t.Errorf("Details[max_sessions] = %v, want 8", err.Details["max_sessions"])
	}
}

func TestNewCancelled(t *testing.T) {
	err := NewCancelled("write")

	if err.Code != ErrCancelled {
		t.Errorf("Code = %q, want %q", err.Code, ErrCancelled)
	}
	if err.Status != 499 {
		t.Errorf("Status = %d, want 499", err.Status)
	}
	if err.Message != "write cancelled" {
		t.Errorf("Message = %q, want %q", err.Message, "write cancelled")
	}
}

func TestNewClockSkew(t *testing.T) {
	err := NewClockSkew(3 * time.Millisecond)

	if err.Code != ErrClockSkew {
		t.Errorf("Code = %q, want %q", err.Code, ErrClockSkew)
	}
	if err.Status != 500 {
		t.Errorf("Status = %d, want 500", err.Status)
	}
	if err.Details["skew"] != "3ms" {
		t.Errorf("Details[skew] = %v, want %q", err.Details["skew"], "3ms")
	}
}

func TestNewSinkFailure(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := NewSinkFailure("/root/log.txt", cause)

	if err.Code != ErrSinkFailure {
		t.Errorf("Code = %q, want %q", err.Code, ErrSinkFailure)
	}
	if err.Details["path"] != "/root/log.txt" {
		t.Errorf("Details[path] = %v, want %q", err.Details["path"], "/root/log.txt")
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected SINK_FAILURE to unwrap to its cause")
	}
	if err.Message != "unable to write file /root/log.txt: permission denied" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		err := NewInternal(fmt.Errorf("database connection failed"))
		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		if err.Message != "database connection failed" {
			t.Errorf("Message = %q, want %q", err.Message, "database connection failed")
		}
	})

	t.Run("nil error", func(t *testing.T) {
		err := NewInternal(nil)
		if err.Message != "internal error" {
			t.Errorf("Message = %q, want %q", err.Message, "internal error")
		}
	})
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"matching code", NewInvalidKind("XX"), ErrInvalidKind, true},
		{"different code", NewInvalidKind("XX"), ErrClockSkew, false},
		{"plain error", fmt.Errorf("boom"), ErrInternal, false},
		{"nil error", nil, ErrInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorsAs(t *testing.T) {
	var err error = NewSinkFailure("x.txt", nil)

	var lErr *LogError
	if !stderrors.As(err, &lErr) {
		t.Fatal("errors.As failed for *LogError")
	}
	if lErr.Code != ErrSinkFailure {
		t.Errorf("Code = %q, want %q", lErr.Code, ErrSinkFailure)
	}
}
