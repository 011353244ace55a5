package main

import (
	"strings"
	"testing"
)

func TestRootCmdHasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	want := []string{"synth", "voices", "phonemize", "model", "serve", "health", "doctor", "inspect"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCmdRegistersConfigFlags(t *testing.T) {
	cmd := NewRootCmd()

	for _, flag := range []string{"config", "model-repo", "tts-voice", "log-level", "ort-lib"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag %q not registered", flag)
		}
	}
}

func TestModelCmdHasDownloadAndInfo(t *testing.T) {
	cmd := newModelCmd()

	names := make([]string, 0, 2)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}

	joined := strings.Join(names, ",")
	if !strings.Contains(joined, "download") || !strings.Contains(joined, "info") {
		t.Fatalf("model subcommands = %v, want download and info", names)
	}
}
