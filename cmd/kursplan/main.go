// Package main is the kursplan command.
package main

import "github.com/mesh-intelligence/kursplan/internal/cli"

func main() {
	cli.Execute()
}
