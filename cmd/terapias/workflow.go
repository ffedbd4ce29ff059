package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"terapias-go/internal/app"
	"terapias-go/internal/organizer"

	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List documents waiting to be organized",
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, _ := cmd.Flags().GetString("folder")

		a, err := newApp("ListDocuments", folder)
		if err != nil {
			return err
		}
		defer a.Close()

		docs, err := a.ListDocuments(folder)
		if err != nil {
			return err
		}
		fmt.Println(renderDocuments(docs))
		return nil
	},
}

func renderDocuments(docs []organizer.Document) string {
	rows := make([][]string, len(docs))
	for i, d := range docs {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			filepath.Base(d.Path),
			d.ModTime.Format("2006-01-02 15:04"),
			strconv.FormatInt(d.Size, 10),
		}
	}
	return renderTable([]string{"#", "Document", "Modified", "Bytes"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight})
}

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Rename a document and move it into its patient folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, _ := cmd.Flags().GetString("folder")
		file, _ := cmd.Flags().GetString("file")
		name, _ := cmd.Flags().GetString("name")
		yes, _ := cmd.Flags().GetBool("yes")
		noOpen, _ := cmd.Flags().GetBool("no-open")
		allowUnknown, _ := cmd.Flags().GetBool("allow-unknown")

		a, err := newApp("Organize", fmt.Sprintf("file=%s name=%s", file, name))
		if err != nil {
			return err
		}
		defer a.Close()

		if file == "" {
			if file, err = pickDocument(a, folder); err != nil {
				return err
			}
		}
		if name == "" {
			if name, err = ask("Document name: "); err != nil {
				return fmt.Errorf("--name is required: %w", err)
			}
		}

		p, err := a.Plan(file, name, allowUnknown)
		if errors.Is(err, organizer.ErrUnknownPatient) && isInteractive() {
			ok, cerr := confirm(fmt.Sprintf("No patient after '%s'. Save under %s?", organizer.DefaultMarker, organizer.UnknownPatient))
			if cerr != nil {
				return cerr
			}
			if !ok {
				return err
			}
			allowUnknown = true
			p, err = a.Plan(file, name, allowUnknown)
		}
		if err != nil {
			return err
		}

		year, month, day := p.Dates.Segments()
		fmt.Printf("Document: %s\n", filepath.Base(p.SourcePath))
		fmt.Printf("Patient:  %s\n", p.Patient)
		fmt.Printf("Date:     %s/%s/%s\n", year, month, day)
		fmt.Printf("New file: %s\n", p.DocPath)
		if !yes {
			ok, err := confirm("Organize?")
			if err != nil {
				return fmt.Errorf("pass --yes to skip confirmation: %w", err)
			}
			if !ok {
				fmt.Println("Nothing changed.")
				return nil
			}
		}

		placed, err := a.Organize(cmd.Context(), file, name, allowUnknown)
		if err != nil {
			return err
		}
		if placed.Attempts > 1 {
			fmt.Printf("Moved after %d attempts.\n", placed.Attempts)
		}
		fmt.Printf("Saved to %s\n", placed.DocPath)

		if !noOpen {
			if err := a.OpenInEditor(cmd.Context(), placed.DocPath); err != nil {
				fmt.Fprintf(os.Stderr, "Could not open the editor: %v\n", err)
			}
		}
		fmt.Printf("When the document is ready, run 'terapias finish' to create %s\n", filepath.Base(placed.PDFPath))
		return nil
	},
}

// pickDocument returns the only document in folder, or asks the operator to choose.
func pickDocument(a *app.TerapiasApp, folder string) (string, error) {
	docs, err := a.ListDocuments(folder)
	if err != nil {
		return "", err
	}
	if len(docs) == 1 {
		return docs[0].Path, nil
	}
	if !isInteractive() {
		return "", fmt.Errorf("%d documents found; choose one with --file", len(docs))
	}
	fmt.Println(renderDocuments(docs))
	i, err := choose("Document", len(docs))
	if err != nil {
		return "", err
	}
	return docs[i].Path, nil
}

var finishCmd = &cobra.Command{
	Use:   "finish",
	Short: "Create the PDF and back up the original",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Finish", "")
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Finish(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("PDF:    %s\n", res.Pending.PDFPath)
		fmt.Printf("Backup: %s\n", res.BackupPath)
		return nil
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Show the document waiting for its PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Pending", "")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Pending(cmd.Context())
		if err != nil {
			return err
		}
		if p == nil {
			fmt.Println("Nothing is waiting for conversion.")
			return nil
		}
		fmt.Printf("Document: %s\n", p.DocPath)
		fmt.Printf("PDF:      %s\n", p.PDFPath)
		fmt.Printf("Patient:  %s\n", p.Patient)
		fmt.Printf("Since:    %s (%s ago)\n", p.CreatedAt.Local().Format("2006-01-02 15:04"),
			time.Since(p.CreatedAt).Truncate(time.Minute))
		return nil
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Forget the pending document without touching files",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Cancel", "")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Cancel(cmd.Context())
		if err != nil {
			return err
		}
		if p == nil {
			fmt.Println("Nothing was pending.")
			return nil
		}
		fmt.Printf("Released %s\n", p.DocPath)
		return nil
	},
}
