package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check folders, tools and keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Doctor", "")
		if err != nil {
			return err
		}
		defer a.Close()

		checks := a.Doctor()
		rows := make([][]string, len(checks))
		failed := 0
		for i, c := range checks {
			status := "ok"
			switch {
			case !c.OK && c.Optional:
				status = "warn"
			case !c.OK:
				status = "FAIL"
				failed++
			}
			rows[i] = []string{c.Name, status, c.Target, c.Detail}
		}
		fmt.Println(renderTable([]string{"Check", "Status", "Target", "Detail"}, rows, nil))

		if failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}
