package main

import "github.com/goliatone/go-newsnet/cmd/newsd/commands"

func main() {
	commands.Execute()
}
