package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"archivist/internal/config"
)

// Requirement defines an external program the migration relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// ExtractRequirements lists the extraction programs named in cfg. Extraction
// failures degrade to manual entry, so only the PDF extractor is required and
// OCR is listed only when configured.
func ExtractRequirements(cfg config.Extract) []Requirement {
	reqs := []Requirement{
		{Name: "PDF text", Command: executable(cfg.PDFCommand), Description: "Extracts text from PDF sources"},
		{Name: "DOCX text", Command: executable(cfg.DOCXCommand), Description: "Extracts text from DOCX sources", Optional: true},
	}
	if ocr := executable(cfg.OCRCommand); ocr != "" {
		reqs = append(reqs, Requirement{Name: "OCR", Command: ocr, Description: "Recognizes text in scanned PDFs", Optional: true})
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		status := Status{Requirement: req}
		if req.Command == "" {
			status.Detail = "command not configured"
		} else if _, err := exec.LookPath(req.Command); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		} else {
			status.Available = true
		}
		results = append(results, status)
	}
	return results
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			out = append(out, s)
		}
	}
	return out
}

func executable(argv []string) string {
	if len(argv) == 0 {
		return ""
	}
	return strings.TrimSpace(argv[0])
}
