package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the chad CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with its major, minor and patch parts colored.
// A version that is not dotted is returned as is.
func Colored(enabled bool) string {
	parts := strings.SplitN(Version, ".", 3)
	if !enabled || len(parts) != 3 {
		return Version
	}
	paint := func(c *color.Color, s string) string {
		c.EnableColor()
		return c.Sprint(s)
	}
	patch, suffix, _ := strings.Cut(parts[2], "-")
	if suffix != "" {
		suffix = "-" + suffix
	}
	return paint(versionMajorColor, parts[0]) + "." +
		paint(versionMinorColor, parts[1]) + "." +
		paint(versionPatchColor, patch) + suffix
}

// Info returns the version line followed by build metadata when known.
func Info(colored bool) string {
	var b strings.Builder
	b.WriteString("chad " + Colored(colored))
	if GitCommit != "" {
		b.WriteString("\ncommit: " + GitCommit)
	}
	if BuildDate != "" {
		b.WriteString("\nbuilt:  " + BuildDate)
	}
	return b.String()
}
