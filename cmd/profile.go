package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bnema/bbscapade/internal/application"
	"github.com/bnema/bbscapade/internal/domain"
	"github.com/spf13/cobra"
)

type profileOutput struct {
	Profile    domain.Profile `json:"profile"`
	Categories []string       `json:"categories"`
	Generated  bool           `json:"generated"`
}

func newProfileCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Generate a BBS identity and print it without connecting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProfile(cmd, c, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func runProfile(cmd *cobra.Command, c *cli, asJSON bool) error {
	app, err := wireApp(cmd.Context(), c, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	var (
		profile domain.Profile
		outcome application.Outcome
	)
	loadCmd := func(ctx context.Context) error {
		var err error
		profile, outcome, err = app.content.Profile(ctx)
		return err
	}

	if asJSON {
		if err := loadCmd(cmd.Context()); err != nil {
			return err
		}
	} else {
		if err := runLoading(cmd.Context(), cmd.ErrOrStderr(), app.status, "Generating BBS profile...", loadCmd); err != nil {
			return err
		}
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(profileOutput{
			Profile:    profile,
			Categories: profile.FileCategories(),
			Generated:  !outcome.Degraded(),
		})
	}

	if notice := app.view.Degraded(outcome); notice != "" {
		if _, err := fmt.Fprintln(cmd.ErrOrStderr(), notice); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), app.view.Welcome(profile, profile.Tagline, "")); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), app.view.BoardList(profile.BoardNames))
	return err
}
