package main

import "chatrum/cmd/cli/command"

func main() {
	command.Execute()
}
