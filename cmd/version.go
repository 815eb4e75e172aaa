package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/selfupdate"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "az104", version)

		if check, _ := cmd.Flags().GetBool("check"); !check {
			return nil
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		return reportRelease(ctx, out, selfupdate.NewChecker(), version)
	},
}

func init() {
	versionCmd.Flags().Bool("check", false, "Also report whether a newer release exists")
}

func reportRelease(ctx context.Context, out io.Writer, checker *selfupdate.Checker, current string) error {
	res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: current})
	if errors.Is(err, selfupdate.ErrDevBuild) {
		fmt.Fprintln(out, "Development build; no release to compare against.")
		return nil
	}
	if err != nil {
		return err
	}
	if !res.UpdateAvailable {
		fmt.Fprintln(out, "This is the latest release.")
		return nil
	}
	fmt.Fprintf(out, "az104 %s is available.\n", res.LatestVersion)
	if res.ReleaseURL != "" {
		fmt.Fprintln(out, res.ReleaseURL)
	}
	return nil
}
