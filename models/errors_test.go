package models

import (
	"errors"
	"strings"
	"testing"
)

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
	}{
		{&NotFoundError{Kind: "tenant", Name: "acme"}, ErrNotFound},
		{&AmbiguousSelectionError{Kind: "tenant", Candidates: []string{"a", "b"}}, ErrAmbiguousSelection},
		{&ResolutionConflictError{Name: "DMZ", Values: []string{"DMZ", "DM|Z"}}, ErrResolutionConflict},
		{&UnmigratedDependencyError{Cluster: "fw", AppProfile: "web"}, ErrPrecondition},
		{&IrreversibleStateError{Tenant: "acme", App: "web"}, ErrIrreversibleState},
	}

	for _, tc := range cases {
		if !errors.Is(tc.err, tc.sentinel) {
			t.Fatalf("%T does not unwrap to %v", tc.err, tc.sentinel)
		}
		if tc.err.Error() == "" {
			t.Fatalf("%T renders an empty message", tc.err)
		}
	}
}

func TestErrorMessagesNameTheScope(t *testing.T) {
	err := &UnmigratedDependencyError{Cluster: "fw-cluster", AppProfile: "web"}
	msg := err.Error()
	if !strings.Contains(msg, "fw-cluster") || !strings.Contains(msg, "web") {
		t.Fatalf("message %q does not name cluster and profile", msg)
	}
}
