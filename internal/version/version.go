// Package version carries build metadata injected with -ldflags.
package version

import "fmt"

// Set via -ldflags "-X github.com/steveyegge/sendtoftrack/internal/version.Version=..."
var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)

// ShortCommit truncates a git hash to 12 characters.
func ShortCommit(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

// String renders the version line printed by --version.
func String() string {
	s := Version
	if c := ShortCommit(Commit); c != "" {
		s += fmt.Sprintf(" (%s)", c)
	}
	if BuildDate != "" {
		s += " built " + BuildDate
	}
	return s
}
