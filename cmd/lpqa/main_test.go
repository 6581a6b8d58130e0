package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/crolabs/lpqa/internal/exitcode"
)

func TestRunCLINoArgs(t *testing.T) {
	var out, errOut bytes.Buffer
	code := runCLI(context.Background(), nil, &out, &errOut)
	if code != exitcode.ConfigError {
		t.Fatalf("expected config error exit code, got %d", code)
	}
	if !strings.Contains(errOut.String(), "usage:") {
		t.Fatalf("expected usage message, got %q", errOut.String())
	}
}

func TestRunCLIUnknownCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	code := runCLI(context.Background(), []string{"fly"}, &out, &errOut)
	if code != exitcode.ConfigError {
		t.Fatalf("expected config error exit code, got %d", code)
	}
	if !strings.Contains(errOut.String(), "unknown command") {
		t.Fatalf("expected unknown command message, got %q", errOut.String())
	}
}

func TestRunCLIVersion(t *testing.T) {
	var out, errOut bytes.Buffer
	code := runCLI(context.Background(), []string{"version"}, &out, &errOut)
	if code != exitcode.OK {
		t.Fatalf("expected ok, got %d", code)
	}
	if !strings.Contains(out.String(), "lpqa") {
		t.Fatalf("version output: %q", out.String())
	}
}

func TestRunRequiresURL(t *testing.T) {
	var out, errOut bytes.Buffer
	code := runCLI(context.Background(), []string{"run"}, &out, &errOut)
	if code != exitcode.ConfigError {
		t.Fatalf("expected config error for missing url, got %d", code)
	}
}

func TestRunRejectsInvalidScheme(t *testing.T) {
	var out, errOut bytes.Buffer
	code := runCLI(context.Background(), []string{"run", "ftp://example.com/lp"}, &out, &errOut)
	if code != exitcode.ConfigError {
		t.Fatalf("expected config error for ftp scheme, got %d", code)
	}
	if !strings.Contains(errOut.String(), "scheme must be http or https") {
		t.Fatalf("expected scheme error, got %q", errOut.String())
	}
}

func TestValidateURL(t *testing.T) {
	cases := []struct {
		raw     string
		wantErr bool
	}{
		{"https://offers.acme.com/a/", false},
		{"http://localhost:8080", false},
		{"ftp://example.com/lp", true},
		{"example.com/lp", true},
		{"https://", true},
		{"://bad", true},
	}
	for _, tc := range cases {
		err := validateURL(tc.raw)
		if tc.wantErr && err == nil {
			t.Errorf("validateURL(%q): expected error", tc.raw)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("validateURL(%q): unexpected error %v", tc.raw, err)
		}
	}
}

func TestTaskRequiresToken(t *testing.T) {
	t.Setenv("QA_TRACKER_TOKEN", "")
	var out, errOut bytes.Buffer
	code := runCLI(context.Background(), []string{"task", "12345"}, &out, &errOut)
	if code != exitcode.ConfigError {
		t.Fatalf("expected config error without tracker token, got %d", code)
	}
	if !strings.Contains(errOut.String(), "token") {
		t.Fatalf("expected token error, got %q", errOut.String())
	}
}
