// Package main is the entry point for the ngsreports tool.
package main

import "ngsreports/cmd/ngsreports/cmd"

func main() {
	cmd.Execute()
}
