package main

import (
	_ "time/tzdata"

	"github.com/momeni/boat-rental/cmd/brweb/command"
)

func main() {
	command.Execute()
}
