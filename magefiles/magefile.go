// Package main provides build targets for the kursplan project using Mage.
//
// Usage:
//
//	mage build          Compile the kursplan binary to bin/
//	mage buildWindows   Cross-compile bin/kursplan.exe with the ACE/Jet providers
//	mage test:all       Run all tests
//	mage test:cover     Run tests with a coverage profile in bin/
//	mage test:windows   Vet the windows-only providers
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install kursplan to GOPATH/bin
package main

import "github.com/magefile/mage/sh"

const (
	binGo      = "go"
	binaryName = "kursplan"
	binaryDir  = "bin"
	cmdDir     = "./cmd/kursplan"
	versionVar = "github.com/mesh-intelligence/kursplan/internal/cli.Version"
)

// ldflags stamps the version from the latest git tag, if any.
func ldflags() string {
	tag, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || tag == "" {
		return ""
	}
	if tag[0] == 'v' {
		tag = tag[1:]
	}
	return "-X " + versionVar + "=" + tag
}
