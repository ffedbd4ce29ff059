package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"terapias-go/internal/app"
	"terapias-go/internal/config"
	"terapias-go/internal/encryption"
	"terapias-go/internal/organizer"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, statusText(err))
		}
		stop()
		os.Exit(1)
	}
}

// loadConfig reads the config file named by the defaults.
func loadConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}
	path := defaults["config_path"]
	cfg, err := config.ReadFromFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("reading config (run 'terapias config init' first): %w", err)
	}
	return cfg, path, nil
}

// newApp reads the config and creates a TerapiasApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Organize", "Finish").
func newApp(operation, parameters string) (*app.TerapiasApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a, err := app.NewTerapiasApp(cfg, operation, parameters, app.Options{})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// statusText turns err into the message shown to the operator.
func statusText(err error) string {
	var moveErr *organizer.MoveError
	var verr *config.ValidationError
	switch {
	case errors.As(err, &verr):
		lines := []string{"Invalid configuration:"}
		for _, p := range verr.Problems {
			lines = append(lines, fmt.Sprintf("  %s: %s", p.Field, p.Message))
		}
		return strings.Join(lines, "\n")
	case errors.Is(err, organizer.ErrEmptyName):
		return "Enter a name for the document."
	case errors.Is(err, organizer.ErrUnknownPatient):
		return fmt.Sprintf("No patient found in the name. Use '%s <patient>' or pass --allow-unknown.", organizer.DefaultMarker)
	case errors.Is(err, organizer.ErrPathTooLong):
		return "The resulting path is too long; shorten the name.\n" + err.Error()
	case errors.Is(err, organizer.ErrCollisionLimit):
		return "No free file name left in the patient folder.\n" + err.Error()
	case errors.Is(err, organizer.ErrNoDocuments):
		return "No documents to organize.\n" + err.Error()
	case errors.Is(err, organizer.ErrAlreadyAwaiting):
		return "A document is still waiting for its PDF. Run 'terapias finish' or 'terapias cancel'.\n" + err.Error()
	case errors.Is(err, organizer.ErrNotAwaitingConversion):
		return "Nothing is waiting for conversion."
	case errors.Is(err, organizer.ErrDocumentMissing):
		return "The document is no longer there. It may have been moved or renamed.\n" + err.Error()
	case errors.Is(err, organizer.ErrConversionFailed):
		return "Could not create the PDF. Export it from the editor and run 'terapias finish' again.\n" + err.Error()
	case errors.Is(err, organizer.ErrPDFMissing):
		return "The PDF was not created. Export it from the editor and run 'terapias finish' again.\n" + err.Error()
	case errors.Is(err, encryption.ErrKeysExist):
		return "Backup keys already exist.\n" + err.Error()
	case errors.As(err, &moveErr):
		return fmt.Sprintf("Could not move the file; close it in the editor and try again.\n%v", err)
	default:
		return "Error: " + err.Error()
	}
}

var rootCmd = &cobra.Command{
	Use:           "terapias",
	Short:         "Organize therapy documents into patient folders",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["home_dir"], defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		printFolders(cfg)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		printFolders(cfg)
		fmt.Printf("Log Dir:     %s\n", cfg.Log.Dir)
		fmt.Printf("Converter:   %s\n", cfg.Converter.Type)
		fmt.Printf("Encryption:  %s\n", cfg.Backup.Encryption)
		if err := cfg.Validate(); err != nil {
			fmt.Printf("\n%s\n", statusText(err))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change folders and the word processor path",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		flags := []struct {
			name string
			dst  *string
		}{
			{"source", &cfg.Folders.Source},
			{"destination", &cfg.Folders.Destination},
			{"backup", &cfg.Folders.Backup},
			{"word-path", &cfg.Folders.WordPath},
		}
		changed := false
		for _, f := range flags {
			if cmd.Flags().Changed(f.name) {
				v, _ := cmd.Flags().GetString(f.name)
				*f.dst = strings.TrimSpace(v)
				changed = true
			}
		}
		if !changed {
			return errors.New("nothing to change; pass --source, --destination, --backup or --word-path")
		}

		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Printf("Configuration saved to %s\n", path)
		printFolders(cfg)
		return nil
	},
}

func printFolders(cfg *config.Config) {
	fmt.Printf("Source:      %s\n", cfg.Folders.Source)
	fmt.Printf("Destination: %s\n", cfg.Folders.Destination)
	fmt.Printf("Backup:      %s\n", cfg.Folders.Backup)
	if cfg.Folders.WordPath != "" {
		fmt.Printf("Word path:   %s\n", cfg.Folders.WordPath)
	}
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().String("source", "", "Folder where new documents appear")
	configSetCmd.Flags().String("destination", "", "Root of the year/month/day/patient tree")
	configSetCmd.Flags().String("backup", "", "Folder for originals after conversion")
	configSetCmd.Flags().String("word-path", "", "Word processor executable")

	// workflow commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(docsCmd)
	docsCmd.Flags().String("folder", "", "Folder to list (defaults to the source folder)")
	rootCmd.AddCommand(organizeCmd)
	organizeCmd.Flags().String("folder", "", "Folder to pick the document from (defaults to the source folder)")
	organizeCmd.Flags().StringP("file", "f", "", "Document to organize")
	organizeCmd.Flags().StringP("name", "n", "", "New document name, e.g. 'Informe SS Ana López'")
	organizeCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	organizeCmd.Flags().Bool("no-open", false, "Do not open the document in the editor")
	organizeCmd.Flags().Bool("allow-unknown", false, "Accept names without a patient")
	rootCmd.AddCommand(finishCmd)
	rootCmd.AddCommand(pendingCmd)
	rootCmd.AddCommand(cancelCmd)

	// records
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of entries to show")
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntP("limit", "n", 100, "Maximum number of folders to show")

	// keys and sealed backups
	keysCmd.AddCommand(keysInitCmd)
	rootCmd.AddCommand(keysCmd)
	backupCmd.AddCommand(backupOpenCmd)
	backupOpenCmd.Flags().StringP("out", "o", "", "Where to write the opened document")
	rootCmd.AddCommand(backupCmd)

	rootCmd.AddCommand(doctorCmd)
}
