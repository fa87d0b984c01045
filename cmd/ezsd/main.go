package main

import (
	"ezsd/cmd/ezsd/commands"
	"ezsd/lib/serviceutil"
)

func main() {
	commands.Execute(serviceutil.SignalContext())
}
