// Package main is the entry point for the icodetest CLI tool.
package main

import (
	"github.com/igetcool/icodetest/internal/cmd"
)

func main() {
	cmd.Execute()
}
