// Package main provides the brandly CLI.
package main

import "github.com/mesh-intelligence/brandly/internal/cli"

func main() {
	cli.Execute()
}
