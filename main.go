package main

import "github.com/windlane/gustline/internal/cli"

func main() {
	cli.Execute()
}
