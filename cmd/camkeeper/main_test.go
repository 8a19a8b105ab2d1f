package main

import (
	"testing"
)

func TestRunCmdFlags(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantConfig string
		wantDebug  bool
		wantDryRun bool
	}{
		{
			name:       "with config flag",
			args:       []string{"--config", "test.toml"},
			wantConfig: "test.toml",
		},
		{
			name:      "with debug flag",
			args:      []string{"--debug"},
			wantDebug: true,
		},
		{
			name:       "with dry-run flag",
			args:       []string{"--dry-run"},
			wantDryRun: true,
		},
		{
			name:       "short flags",
			args:       []string{"-c", "test.toml", "-d", "-n"},
			wantConfig: "test.toml",
			wantDebug:  true,
			wantDryRun: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags
			runConfigPath = ""
			runDebug = false
			runDryRun = false

			// Parse flags
			runCmd.SetArgs(tt.args)
			_ = runCmd.ParseFlags(tt.args)

			if runConfigPath != tt.wantConfig {
				t.Errorf("runConfigPath = %v, want %v", runConfigPath, tt.wantConfig)
			}
			if runDebug != tt.wantDebug {
				t.Errorf("runDebug = %v, want %v", runDebug, tt.wantDebug)
			}
			if runDryRun != tt.wantDryRun {
				t.Errorf("runDryRun = %v, want %v", runDryRun, tt.wantDryRun)
			}
		})
	}
}

func TestCommandStructure(t *testing.T) {
	want := map[string]bool{
		"version": false,
		"config":  false,
		"run":     false,
		"serve":   false,
	}

	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q is not registered", name)
		}
	}
}
