package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var shellInitCmdName string

var shellInitCmd = &cobra.Command{
	Use:   "shell-init [SHELL]",
	Short: "Print a shell function that cds into the worktree a command produces",
	Long: `shell-init prints a shell function wrapping this binary so that
init, clone, new, and move change the calling shell's directory to the
worktree they produced.

Add to your shell's startup file:
  eval "$(workon shell-init)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		shell := "bash"
		if len(args) == 1 {
			shell = args[0]
		}
		switch shell {
		case "zsh":
			fmt.Print(zshScript(shellInitCmdName))
		default:
			fmt.Print(bashScript(shellInitCmdName))
		}
		return nil
	},
}

func init() {
	shellInitCmd.Flags().StringVar(&shellInitCmdName, "cmd", "workon", "name of the wrapper shell function")
}

func bashScript(name string) string {
	return fmt.Sprintf(`# %[1]s shell integration for bash
# Add to ~/.bashrc: eval "$(workon shell-init --cmd %[1]s)"

%[1]s() {
    case "$1" in
        init|clone|new|move)
            local path exit_code
            path=$(command workon "$@")
            exit_code=$?
            if [[ $exit_code -eq 0 && -n "$path" ]]; then
                cd "$path" || return 1
            else
                printf '%%s\n' "$path" >&2
            fi
            return $exit_code
            ;;
        *)
            command workon "$@"
            ;;
    esac
}

_%[1]s_completions() {
    local cur="${COMP_WORDS[COMP_CWORD]}"
    COMPREPLY=($(command workon _complete --index "$COMP_CWORD" -- "${COMP_WORDS[@]}"))
}
complete -F _%[1]s_completions %[1]s
`, name)
}

func zshScript(name string) string {
	return fmt.Sprintf(`# %[1]s shell integration for zsh
# Add to ~/.zshrc: eval "$(workon shell-init zsh --cmd %[1]s)"

%[1]s() {
    case "$1" in
        init|clone|new|move)
            local path
            path=$(command workon "$@")
            local exit_code=$?
            if [[ $exit_code -eq 0 && -n "$path" ]]; then
                cd "$path" || return 1
            else
                print -u2 "$path"
            fi
            return $exit_code
            ;;
        *)
            command workon "$@"
            ;;
    esac
}

_%[1]s_completions() {
    reply=($(command workon _complete --index "$CURRENT" -- "${words[@]}"))
}
compctl -K _%[1]s_completions %[1]s
`, name)
}
