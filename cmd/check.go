package cmd

import (
	"fmt"
	"os/exec"

	"github.com/charmbracelet/lipgloss"
	"github.com/omxconductor/omxconductor/color"
	"github.com/omxconductor/omxconductor/constant"
	"github.com/omxconductor/omxconductor/filesystem"
	"github.com/omxconductor/omxconductor/icon"
	"github.com/omxconductor/omxconductor/player"
	"github.com/omxconductor/omxconductor/style"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkCmd reports whether the host can run sessions.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the player and its control bus are available",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(CheckDependencies())

		path, _ := exec.LookPath(constant.Executable)
		cmd.Printf("%s %s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), constant.Executable, style.Faint(path))

		bus := player.DefaultBusAddressFile()
		if _, err := filesystem.API().Stat(bus); err != nil {
			cmd.Printf("%s %s %s\n", style.Fg(color.Yellow)(icon.Get(icon.Progress)), bus, style.Faint("not written yet, it appears once a player is running"))
		} else {
			cmd.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), bus)
		}
	},
}

// CheckDependencies verifies that omxplayer can be found in the PATH.
func CheckDependencies() error {
	if _, err := exec.LookPath(constant.Executable); err != nil {
		printMissingDependencyError(constant.Executable)
		return fmt.Errorf("%s not found: %w", constant.Executable, err)
	}
	return nil
}

func printMissingDependencyError(dep string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.ErrorColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))
	suggestion := fmt.Sprintf("\n\nOn Raspberry Pi OS, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render("sudo apt install omxplayer"))

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
