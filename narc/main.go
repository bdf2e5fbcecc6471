package main

import "github.com/indrora/newc/narc/cmd"

func main() {
	cmd.Execute()
}
