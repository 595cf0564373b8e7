package pipeline

import (
	"fmt"
	"strings"

	"github.com/Cyberdude00/aura-scouting-web/pkg/uploader"
	"github.com/dustin/go-humanize"
	"github.com/robinjoseph08/golib/logger"
)

type Mode string

const (
	ModeRebuild       Mode = "rebuild"
	ModeSync          Mode = "sync"
	ModeApplyOne      Mode = "apply"
	ModeImportMissing Mode = "import-legacy"
	ModeAddMissing    Mode = "add-missing"
	ModeRemove        Mode = "remove"
	ModeUpload        Mode = "upload"
)

// Report is the end-of-run summary of a mode. Subject lists hold display
// names.
type Report struct {
	Mode      Mode
	DryRun    bool
	OrderMode string
	Manifests int

	Updated   []string
	Added     []string
	Removed   []string
	Unchanged []string
	NotFound  []string
	// NewSubjects are subjects a rebuild appended to groups because no legacy
	// order listed them.
	NewSubjects []string

	Warnings []string
	// Files lists the files written. It stays empty on dry runs.
	Files []string

	Upload *uploader.Summary
}

func newReport(mode Mode, dryRun bool) *Report {
	return &Report{Mode: mode, DryRun: dryRun}
}

func (r *Report) warn(log logger.Logger, msg string) {
	log.Warn(msg)
	r.Warnings = append(r.Warnings, msg)
}

// Data is the report as structured log fields.
func (r *Report) Data() logger.Data {
	data := logger.Data{
		"mode":      string(r.Mode),
		"dry_run":   r.DryRun,
		"manifests": r.Manifests,
		"updated":   len(r.Updated),
		"added":     len(r.Added),
		"removed":   len(r.Removed),
		"unchanged": len(r.Unchanged),
		"not_found": len(r.NotFound),
		"warnings":  len(r.Warnings),
	}
	if r.OrderMode != "" {
		data["order_mode"] = r.OrderMode
	}
	return data
}

// Lines renders the report for the terminal.
func (r *Report) Lines() []string {
	lines := []string{}
	if r.DryRun {
		lines = append(lines, "Dry run complete. No file changes written.")
	}
	if r.OrderMode != "" {
		lines = append(lines, "Order mode: "+r.OrderMode)
	}
	if r.Manifests > 0 {
		lines = append(lines, fmt.Sprintf("Manifests processed: %d", r.Manifests))
	}

	lines = appendList(lines, "Models updated", r.Updated)
	lines = appendList(lines, "Models added", r.Added)
	lines = appendList(lines, "Models removed", r.Removed)
	if len(r.Unchanged) > 0 {
		lines = append(lines, fmt.Sprintf("Models unchanged: %d", len(r.Unchanged)))
	}
	lines = appendList(lines, "Not found", r.NotFound)
	lines = appendList(lines, "New models added to groups", r.NewSubjects)

	if r.Upload != nil {
		lines = append(lines,
			fmt.Sprintf("Models processed: %d", len(r.Upload.Subjects)),
			fmt.Sprintf("Uploaded: %d (%s)", r.Upload.Uploaded, humanize.Bytes(uint64(r.Upload.Bytes))),
			fmt.Sprintf("Skipped existing: %d", r.Upload.Skipped),
		)
	}

	if len(r.Warnings) > 0 {
		lines = append(lines, "Warnings:")
		for _, w := range r.Warnings {
			lines = append(lines, "- "+w)
		}
	}
	for _, f := range r.Files {
		lines = append(lines, "File: "+f)
	}
	return lines
}

func (r *Report) String() string {
	return strings.Join(r.Lines(), "\n")
}

func appendList(lines []string, label string, names []string) []string {
	if len(names) == 0 {
		return lines
	}
	return append(lines, fmt.Sprintf("%s: %d (%s)", label, len(names), strings.Join(names, ", ")))
}
