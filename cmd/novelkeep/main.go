package main

import "github.com/dhkang/novelkeep/cmd/novelkeep/cmd"

func main() {
	cmd.Execute()
}
