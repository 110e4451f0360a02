package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

const completionDesc = `
Generate an autocompletion script for wordpieces for the specified shell.

To load completions in your current shell session:

    source <(wordpieces completion bash)
    source <(wordpieces completion zsh)
    wordpieces completion fish | source
    wordpieces completion powershell | Out-String | Invoke-Expression
`

const (
	noDescFlagName = "no-descriptions"
	noDescFlagText = "disable completion descriptions"
)

type completionGenerator func(root *cobra.Command, out io.Writer, withDesc bool) error

var completionShells = []struct {
	name string
	gen  completionGenerator
}{
	{"bash", func(root *cobra.Command, out io.Writer, withDesc bool) error {
		return root.GenBashCompletionV2(out, withDesc)
	}},
	{"zsh", func(root *cobra.Command, out io.Writer, withDesc bool) error {
		var err error
		if withDesc {
			err = root.GenZshCompletion(out)
		} else {
			err = root.GenZshCompletionNoDesc(out)
		}
		if err != nil {
			return err
		}
		// cobra does not register the function when the script is sourced
		_, err = fmt.Fprintf(out, "compdef _%[1]s %[1]s\n", root.Name())
		return err
	}},
	{"fish", func(root *cobra.Command, out io.Writer, withDesc bool) error {
		return root.GenFishCompletion(out, withDesc)
	}},
	{"powershell", func(root *cobra.Command, out io.Writer, withDesc bool) error {
		if withDesc {
			return root.GenPowerShellCompletionWithDesc(out)
		}
		return root.GenPowerShellCompletion(out)
	}},
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate autocompletion scripts for the specified shell",
		Long:  completionDesc,
		Args:  cobra.NoArgs,
	}

	for _, shell := range completionShells {
		var noDesc bool
		gen := shell.gen
		sub := &cobra.Command{
			Use:   shell.name,
			Short: "Generate autocompletion script for " + shell.name,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return gen(cmd.Root(), cmd.OutOrStdout(), !noDesc)
			},
		}
		sub.Flags().BoolVar(&noDesc, noDescFlagName, false, noDescFlagText)
		cmd.AddCommand(sub)
	}

	return cmd
}
