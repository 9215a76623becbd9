package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	sentinel := New(CodeCombatNotActive, "combat is not active")
	other := WithMetadata(CodeCombatNotActive, "different message", map[string]string{"Session": "s1"})

	if !stderrors.Is(other, sentinel) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(New(CodeNotFound, "missing"), sentinel) {
		t.Fatal("expected different codes not to match")
	}
}

func TestCodeOfWalksChain(t *testing.T) {
	err := fmt.Errorf("start combat: %w", New(CodeCombatNotAllRolled, "not all rolled"))
	if got := CodeOf(err); got != CodeCombatNotAllRolled {
		t.Fatalf("CodeOf = %q, want %q", got, CodeCombatNotAllRolled)
	}
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("CodeOf(plain) = %q, want %q", got, CodeUnknown)
	}
}

func TestCategory(t *testing.T) {
	tcs := []struct {
		code Code
		want Category
	}{
		{CodeDicePoolInvalid, CategoryInvalidArgument},
		{CodePhaseInvalid, CategoryInvalidArgument},
		{CodeCombatNotAllRolled, CategoryFailedPrecondition},
		{CodeCombatantAlreadyRolled, CategoryFailedPrecondition},
		{CodeNotAuthorized, CategoryPermissionDenied},
		{CodeNotFound, CategoryNotFound},
		{CodeCombatantExists, CategoryAlreadyExists},
		{CodeUnknown, CategoryInternal},
	}
	for _, tc := range tcs {
		if got := tc.code.Category(); got != tc.want {
			t.Fatalf("%s.Category() = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestIsRecoverable(t *testing.T) {
	if !IsRecoverable(New(CodeCombatNotActive, "x")) {
		t.Fatal("expected precondition error to be recoverable")
	}
	if IsRecoverable(stderrors.New("boom")) {
		t.Fatal("expected plain error to be unrecoverable")
	}
}
