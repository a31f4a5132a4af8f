// Package main is the entry point for the devfolio CLI: the portfolio
// API server plus operational subcommands (migrations, admin accounts).
package main

import "devfolio/cmd/devfolio/commands"

func main() {
	commands.Execute()
}
