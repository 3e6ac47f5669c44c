package main

import "github.com/Tameralinada/ai-code-reviewer/cmd"

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
