package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" {
		t.Error("Version should not be empty")
	}
	if info.Commit == "" {
		t.Error("Commit should not be empty")
	}
	if info.BuildTime == "" {
		t.Error("BuildTime should not be empty")
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
}

func TestString(t *testing.T) {
	info := Get()
	s := String()

	for _, part := range []string{info.Version, "(" + info.Commit + ")", "built at", info.GoVersion} {
		if !strings.Contains(s, part) {
			t.Errorf("String() = %q, missing %q", s, part)
		}
	}
}

func TestFillFromVCS(t *testing.T) {
	tests := []struct {
		name       string
		info       Info
		settings   []debug.BuildSetting
		wantCommit string
		wantTime   string
	}{
		{
			name: "fills defaults",
			info: Info{Commit: "unknown", BuildTime: "unknown"},
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef0123"},
				{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			},
			wantCommit: "0123456789ab",
			wantTime:   "2026-01-02T03:04:05Z",
		},
		{
			name:       "keeps ldflags values",
			info:       Info{Commit: "abc123", BuildTime: "yesterday"},
			settings:   []debug.BuildSetting{{Key: "vcs.revision", Value: "fff"}},
			wantCommit: "abc123",
			wantTime:   "yesterday",
		},
		{
			name:       "no vcs stamp",
			info:       Info{Commit: "unknown", BuildTime: "unknown"},
			wantCommit: "unknown",
			wantTime:   "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := tt.info
			fillFromVCS(&info, tt.settings)
			if info.Commit != tt.wantCommit {
				t.Errorf("Commit = %q, want %q", info.Commit, tt.wantCommit)
			}
			if info.BuildTime != tt.wantTime {
				t.Errorf("BuildTime = %q, want %q", info.BuildTime, tt.wantTime)
			}
		})
	}
}
