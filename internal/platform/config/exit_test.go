package config

import (
	"log"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// TestExitf_ExitsWithCode1 uses a subprocess because os.Exit cannot be
// intercepted in-process.
func TestExitf_ExitsWithCode1(t *testing.T) {
	if os.Getenv("TEST_EXITF_SUBPROCESS") == "1" {
		log.SetPrefix("[TEST] ")
		Exitf("fatal: %s", "something broke")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitf_ExitsWithCode1$")
	cmd.Env = append(os.Environ(), "TEST_EXITF_SUBPROCESS=1")

	out, err := cmd.CombinedOutput()

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	if exitErr.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %d", exitErr.ExitCode())
	}
	if !strings.Contains(string(out), "[TEST] fatal: something broke") {
		t.Fatalf("expected stderr to contain prefixed message, got %q", string(out))
	}
}

func TestExitUsagefUsesCode2(t *testing.T) {
	var got int
	exit = func(code int) { got = code }
	t.Cleanup(func() { exit = os.Exit })

	ExitUsagef("bad flag %q", "-x")
	if got != exitUsage {
		t.Fatalf("exit code = %d, want %d", got, exitUsage)
	}
}
