package main

import "github.com/lepinkainen/orpheus/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
