package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type testConfig struct {
	Address string `env:"CMD_TEST_ADDRESS" envDefault:"127.0.0.1:8080"`
	Mode    string `env:"CMD_TEST_MODE" envDefault:"server"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_ADDRESS", "env:9000")
	t.Setenv("CMD_TEST_MODE", "env-mode")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfgRef := testConfig{}
	if err := ParseConfig(&cfgRef); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfgRef.Address, "address", cfgRef.Address, "address")
	fs.StringVar(&cfgRef.Mode, "mode", cfgRef.Mode, "mode")

	if err := ParseArgs(fs, []string{"-address", "flag:9001"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfgRef.Address != "flag:9001" {
		t.Fatalf("expected flag value for address, got %q", cfgRef.Address)
	}
	if cfgRef.Mode != "env-mode" {
		t.Fatalf("expected env default mode, got %q", cfgRef.Mode)
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	var cfg *testConfig
	if err := ParseConfig(cfg); err == nil {
		t.Fatal("expected nil config target to be rejected")
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceTracker, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryRunsAndShutsDown(t *testing.T) {
	var setupService string
	shutdownCalled := false
	options := RunOptions{
		Setup: func(_ context.Context, service string) (func(context.Context) error, error) {
			setupService = service
			return func(context.Context) error {
				shutdownCalled = true
				return nil
			}, nil
		},
	}

	ran := false
	err := RunWithTelemetryAndOptions(context.Background(), " tracker ", options, func(context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if setupService != ServiceTracker {
		t.Fatalf("setup service = %q, want %q", setupService, ServiceTracker)
	}
	if !ran || !shutdownCalled {
		t.Fatalf("expected run and shutdown, got ran=%v shutdown=%v", ran, shutdownCalled)
	}
}

func TestRunWithTelemetryPropagatesSetupError(t *testing.T) {
	setupErr := errors.New("exporter down")
	options := RunOptions{
		Setup: func(context.Context, string) (func(context.Context) error, error) {
			return nil, setupErr
		},
	}
	err := RunWithTelemetryAndOptions(context.Background(), ServiceTracker, options, func(context.Context) error {
		t.Fatal("run should not be called")
		return nil
	})
	if !errors.Is(err, setupErr) {
		t.Fatalf("expected setup error, got %v", err)
	}
}
