package pipelineerr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorsAsBranchesOnKind(t *testing.T) {
	base := errors.New("connection refused")
	wrapped := fmt.Errorf("poll mailbox: %w", &AcquisitionError{SourceID: "s1", Channel: "email", Err: base})

	var acqErr *AcquisitionError
	if !errors.As(wrapped, &acqErr) {
		t.Fatal("AcquisitionError must survive fmt.Errorf wrapping")
	}
	if acqErr.Channel != "email" {
		t.Fatalf("channel = %q", acqErr.Channel)
	}
	if !errors.Is(wrapped, base) {
		t.Fatal("the cause must stay reachable through Unwrap")
	}

	var parseErr *ParseError
	if errors.As(wrapped, &parseErr) {
		t.Fatal("an acquisition error must not match a parse error")
	}
}

func TestSafetyBlockErrorMessage(t *testing.T) {
	err := &SafetyBlockError{
		SourceID: "s1", Message: "drop percent exceeds threshold",
		ExistingCount: 17000, NewCount: 200, DropPercent: 98.8,
	}
	msg := err.Error()
	for _, want := range []string{"s1", "existing=17000", "new=200", "98.8"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}

func TestWriteErrorUnwrap(t *testing.T) {
	cause := errors.New("deadlock detected")
	err := &WriteError{SourceID: "s1", PartialCount: 40, Err: cause}
	if !errors.Is(err, cause) {
		t.Fatal("WriteError must unwrap to its cause")
	}
}
