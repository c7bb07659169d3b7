package main

import "github.com/itsmostafa/gojs/cmd"

func main() {
	cmd.Execute()
}
