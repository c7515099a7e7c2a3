package main

import "github.com/Builder-Lawyers/publisher/cmd"

func main() {
	cmd.Init()
}
