package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shivamhw/reddit-purge/commons"
	"github.com/shivamhw/reddit-purge/config"
)

func (a *App) whoamiCmd(rCfg *rootCfg) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "log in and print the account the credentials belong to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.Opts{Path: rCfg.configPath})
			if err != nil {
				return err
			}
			src, err := a.Login(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			me := src.Me()
			fmt.Fprintf(a.Stdout, "/u/%s\n", me.Name)
			fmt.Fprintf(a.Stdout, "post karma:    %d\n", me.PostKarma)
			fmt.Fprintf(a.Stdout, "comment karma: %d\n", me.CommentKarma)
			if !me.Created.IsZero() {
				fmt.Fprintf(a.Stdout, "created:       %s\n", commons.HumanUTC(me.Created))
			}
			return nil
		},
	}
}
