package main

import "github.com/genpod/genpod-cli/cmd"

func main() {
	cmd.Execute()
}
