package main

import (
	"github.com/ardanlabs/minichain/app/tooling/cli/commands"
)

func main() {
	commands.Execute()
}
