package main

import "github.com/xll-gen/embedder/cmd"

// main is the entry point of the embedder CLI.
// It executes the root command which validates the arguments and runs the conversion.
func main() {
	cmd.Execute()
}
