// Package main is the entry point for the catalog CLI application.
// It signs in to the product catalog service and browses its products.
package main

import (
	"catalog/cli/cmd"
)

// main is the entry point for the catalog CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
