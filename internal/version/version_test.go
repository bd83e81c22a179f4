package version

import (
	"runtime/debug"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestDefaultVersion(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.Equal(t, Version, Current().Version)
}

func TestFillFromVCS(t *testing.T) {
	settings := []debug.BuildSetting{
		{Key: "vcs", Value: "git"},
		{Key: "vcs.revision", Value: "abc123"},
		{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		{Key: "vcs.modified", Value: "true"},
	}
	var info Info
	info.fill(settings)
	assert.Equal(t, Info{GitCommit: "abc123", BuildDate: "2026-01-02T03:04:05Z", Modified: true}, info)

	pinned := Info{GitCommit: "from-ldflags"}
	pinned.fill(settings)
	assert.Equal(t, "from-ldflags", pinned.GitCommit)
}

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	tests := []struct{ in, want string }{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.2.3+build.7", "1.2.3+build.7"},
		{"dev", "dev"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Colored(tt.in), tt.in)
	}
}

func TestColoredWithColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	out := Colored("1.2.3-rc.1")
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "-rc.1")
}
