package main

import "github.com/tanq16/m3uget/cmd"

func main() {
	cmd.Execute()
}
