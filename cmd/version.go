package cmd

import "fmt"

var (
	GitTag    string // semver(branch)
	GitBranch string // branch
	GitCommit string // patch
	BuildDate string // time

	name        = "linemsg"
	version     = "0.1.0"
	description = "LINE chat-bot messages from configuration"
)

// Version returns the full build version string.
func Version() string {

	fullVersion := version

	if GitTag != "" {
		fullVersion += "@" + GitTag
	}

	if BuildDate != "" {
		fullVersion += fmt.Sprintf("-%s", BuildDate)
	}

	if GitCommit != "" {
		fullVersion += fmt.Sprintf("-%s", GitCommit)
	}

	return fullVersion
}
