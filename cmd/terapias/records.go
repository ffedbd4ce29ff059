package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently organized documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("History", "")
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.History(limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No documents organized yet.")
			return nil
		}

		rows := make([][]string, len(entries))
		for i, e := range entries {
			rows[i] = []string{e.Timestamp, e.Patient, e.Path}
		}
		fmt.Println(renderTable([]string{"When", "Patient", "Folder"}, rows, nil))
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Find patient folders by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		query := strings.Join(args, " ")

		a, err := newApp("SearchPatients", query)
		if err != nil {
			return err
		}
		defer a.Close()

		matches, err := a.SearchPatients(cmd.Context(), query, limit)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Printf("No patient folders match %q.\n", query)
			return nil
		}

		rows := make([][]string, len(matches))
		for i, m := range matches {
			rows[i] = []string{m.Date, m.Patient, m.Path}
		}
		fmt.Println(renderTable([]string{"Date", "Patient", "Folder"}, rows, nil))
		return nil
	},
}
