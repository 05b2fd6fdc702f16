package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/nousrire-site/internal/app"
	"github.com/d60-Lab/nousrire-site/internal/model"
)

var volunteersJSON bool

var volunteersCmd = &cobra.Command{
	Use:   "volunteers",
	Short: "Inspect and manage volunteer sign-ups",
}

var volunteersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sign-ups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			list, err := a.Volunteers.List(ctx)
			if err != nil {
				return err
			}
			return printVolunteers(cmd, list)
		})
	},
}

var volunteersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a sign-up and free its email for a new one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Volunteers.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		})
	},
}

func printVolunteers(cmd *cobra.Command, list []*model.Volunteer) error {
	if volunteersJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tNAME\tEMAIL\tPHONE\tDISTRIBUTION")
	for _, v := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", v.ID, v.CreatedAt.Format("2006-01-02 15:04"), v.Name, v.Email, v.Phone, v.Distribution)
	}
	return tw.Flush()
}

func init() {
	volunteersListCmd.Flags().BoolVar(&volunteersJSON, "json", false, "print as JSON")
	volunteersCmd.AddCommand(volunteersListCmd, volunteersDeleteCmd)
	rootCmd.AddCommand(volunteersCmd)
}
