package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage backup encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the key pair for sealed backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SetupKeys", "")
		if err != nil {
			return err
		}
		defer a.Close()

		pass, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		again, err := readPassphrase("Repeat passphrase: ")
		if err != nil {
			return err
		}
		if pass != again {
			return errors.New("passphrases do not match")
		}

		pub, err := a.SetupKeys(pass)
		if err != nil {
			return err
		}
		fmt.Printf("Public key: %s\n", pub)
		fmt.Println("Set encryption = \"age\" under [backup] to seal new backups.")
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Work with backed up originals",
}

var backupOpenCmd = &cobra.Command{
	Use:   "open SEALED",
	Short: "Decrypt a sealed backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		a, err := newApp("OpenBackup", args[0])
		if err != nil {
			return err
		}
		defer a.Close()

		pass, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		written, err := a.OpenBackup(args[0], out, pass)
		if err != nil {
			return err
		}
		fmt.Printf("Opened to %s\n", written)
		return nil
	},
}
