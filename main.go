package main

import "github.com/tdang/curfew/cmd"

func main() {
	cmd.Execute()
}
