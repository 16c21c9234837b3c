package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xll-gen/embedder/internal/embed"
	"github.com/xll-gen/embedder/pkg/log"
)

// rootCmd represents the embedder command. It has no subcommands and no flags.
var rootCmd = &cobra.Command{
	Use:   "embedder <name> <input-file> <output-c-file> <output-h-file>",
	Short: "Embed a binary file as a C byte array",
	Long: `embedder converts an arbitrary binary file into a C source file defining
EMBEDDED_<NAME>_DATA and EMBEDDED_<NAME>_SIZE, and a header declaring both
symbols with external linkage.

The name is upper-cased with '.' and '-' replaced by '_'.`,
	// Every token is positional, including ones that look like flags.
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Args: func(cmd *cobra.Command, args []string) error {
		return embed.Validate(args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return embed.Run(embed.Options{
			Name:            args[0],
			Input:           args[1],
			DefinitionPath:  args[2],
			DeclarationPath: args[3],
		})
	},
}

// reservedNames are first tokens cobra dispatches to its own hidden commands
// even on a root without subcommands.
var reservedNames = map[string]bool{
	cobra.ShellCompRequestCmd:       true,
	cobra.ShellCompNoDescRequestCmd: true,
	"completion":                    true,
	"help":                          true,
}

// run executes the root command with args (program name excluded).
// A reserved first token is a plain symbolic name here, so it bypasses
// cobra's command lookup.
func run(args []string) error {
	if len(args) > 0 && reservedNames[args[0]] {
		if err := rootCmd.Args(rootCmd, args); err != nil {
			return err
		}
		return rootCmd.RunE(rootCmd, args)
	}

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// Execute runs the root command and exits with status 1 on any failure.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	log.Init(os.Stderr, "warn")

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
