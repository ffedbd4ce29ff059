package convert

import (
	"fmt"

	"terapias-go/internal/config"
)

// ToolStatus reports whether an external program the workflow relies on is usable.
type ToolStatus struct {
	Name      string
	Command   string
	Optional  bool
	Available bool
	Detail    string
}

// CheckTools resolves the editor and converter executables for cfg.
func CheckTools(cfg config.Config) []ToolStatus {
	editor := ToolStatus{Name: "Editor", Optional: true}
	if exe := FindExecutable(cfg.Folders.WordPath, EditorCandidates()); exe != "" {
		editor.Command = exe
		editor.Available = true
	} else {
		editor.Command, _ = openerCommand("")
		editor.Available = FindExecutable(editor.Command, nil) != ""
		editor.Detail = "no word processor found, using the platform opener"
	}

	conv := ToolStatus{Name: "PDF converter", Command: cfg.Converter.Type}
	switch cfg.Converter.Type {
	case "soffice", "":
		if exe := FindExecutable(soffice(cfg.Folders.WordPath), SofficeCandidates()); exe != "" {
			conv.Command = exe
			conv.Available = true
		} else {
			conv.Detail = fmt.Sprintf("none of %v found", SofficeCandidates())
		}
	case "manual":
		conv.Available = true
		conv.Detail = "export the PDF from the editor before finishing"
	case "none":
		conv.Optional = true
		conv.Detail = "conversion disabled"
	default:
		conv.Detail = fmt.Sprintf("unknown converter %q", cfg.Converter.Type)
	}

	return []ToolStatus{editor, conv}
}
