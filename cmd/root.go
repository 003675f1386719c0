// Package cmd implements poshell's command-line entrypoint: a cobra root
// command that starts the interactive REPL against the process's own
// stdio, plus a version subcommand. See SPEC_FULL.md's CLI entrypoint
// section.
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/adriant/poshell/core/config"
	"github.com/adriant/poshell/core/shell"
	"github.com/adriant/poshell/core/term"
)

// version is settable at build time via -ldflags "-X ... cmd.version=...".
var version = "dev"

// exitStatus carries the REPL's exit status out of RunE so Execute can
// os.Exit after cobra has returned, letting every deferred cleanup run
// first.
var exitStatus int

// rootCmd represents the base command when called without any subcommands:
// it starts the interactive REPL directly, matching spec.md §6's "no
// command-line flags".
var rootCmd = &cobra.Command{
	Use:   "poshell",
	Short: "A POSIX-flavoured interactive shell",
	Long:  `poshell is an interactive command shell: line editing, history, TAB completion, pipelines and redirection over a small set of builtins.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("invalid environment: %w", err)
		}

		t, err := term.New(os.Stdin, os.Stdout)
		if err != nil {
			return fmt.Errorf("couldn't attach to terminal: %w", err)
		}
		defer t.Close()

		exitStatus = shell.New(afero.NewOsFs(), cfg, t).Run()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the poshell version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(); it only needs to happen
// once to the rootCmd.
func Execute() {
	log.SetFlags(0)
	rootCmd.AddCommand(versionCmd)
	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitStatus)
}
