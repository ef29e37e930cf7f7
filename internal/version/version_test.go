package version

import (
	"strings"
	"testing"
)

func TestGetters(t *testing.T) {
	if GetVersion() != Version {
		t.Fatalf("GetVersion() = %s", GetVersion())
	}
	if GetBuildDate() != BuildDate || GetGitCommit() != GitCommit {
		t.Fatalf("build metadata mismatch")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name   string
		commit string
		want   string
		absent string
	}{
		{name: "no commit", commit: "unknown", want: "springtint " + Version, absent: "unknown"},
		{name: "with commit", commit: "abc1234", want: "abc1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := GitCommit
			GitCommit = tt.commit
			defer func() { GitCommit = old }()

			got := String()
			if !strings.Contains(got, tt.want) {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
			if tt.absent != "" && strings.Contains(got, tt.absent) {
				t.Fatalf("String() = %q should not contain %q", got, tt.absent)
			}
		})
	}
}
