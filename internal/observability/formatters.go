// Package observability provides logging setup and formatted output
// utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/corpus-merge/internal/courts"
	"github.com/jonathan/corpus-merge/internal/importer"
	"github.com/jonathan/corpus-merge/internal/markup"
	"github.com/jonathan/corpus-merge/internal/reconcile"
	"github.com/jonathan/corpus-merge/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintReport outputs the totals of a finished batch and its first errors.
func (p *Printer) PrintReport(r *importer.Report) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:        %s\n", r.RunID))
	if !r.FinishedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("Duration:   %s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond)))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Processed:  %d\n", r.Processed))
	sb.WriteString(fmt.Sprintf("Created:    %d\n", r.Created))
	sb.WriteString(fmt.Sprintf("Updated:    %d\n", r.Updated))
	sb.WriteString(fmt.Sprintf("Unchanged:  %d\n", r.Unchanged))
	sb.WriteString(fmt.Sprintf("Ambiguous:  %d\n", r.Ambiguous))
	sb.WriteString(fmt.Sprintf("Skipped:    %d\n", r.Skipped))
	sb.WriteString(fmt.Sprintf("Failed:     %d\n", r.Failed))
	sb.WriteString(fmt.Sprintf("No court:   %d\n", r.CourtUnresolved))
	sb.WriteString(fmt.Sprintf("Reviews:    %d\n", r.Reviews))

	if len(r.Errors) > 0 {
		sb.WriteString("\nErrors:\n")
		count := min(len(r.Errors), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", r.Errors[i].Key, r.Errors[i].Error))
		}
		if len(r.Errors) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(r.Errors)-maxItemsToShow))
		}
	}

	p.printBox("IMPORT REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPlan outputs the automatic changes and the diffs queued for review.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintPlan(plan *reconcile.Plan) {
	if plan == nil {
		return
	}
	if plan.Empty() {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fmt.Sprintf("✅ CLUSTER %d ALREADY UP TO DATE", plan.ClusterID))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Cluster: %d\n", plan.ClusterID))

	if len(plan.Updates) > 0 || plan.Date != nil {
		sb.WriteString("\nUpdates:\n")
		for _, u := range plan.Updates {
			sb.WriteString(fmt.Sprintf("  • %s: %q → %q\n", u.Field, u.Old, u.New))
		}
		if plan.Date != nil {
			sb.WriteString(fmt.Sprintf("  • %s: %s (%s)\n", reconcile.FieldDateFiled,
				plan.Date.Value.Format("2006-01-02"), plan.Date.Granularity))
		}
	}
	if len(plan.Opinions) > 0 {
		sb.WriteString(fmt.Sprintf("\nOpinions matched: %d\n", len(plan.Opinions)))
		for _, u := range plan.Opinions {
			sb.WriteString(fmt.Sprintf("  • #%d score %d\n", u.OpinionID, u.Score))
		}
	}
	if len(plan.NewOpinions) > 0 {
		sb.WriteString(fmt.Sprintf("\nNew opinions: %d\n", len(plan.NewOpinions)))
	}
	if len(plan.NewCitations) > 0 {
		sb.WriteString(fmt.Sprintf("\nNew citations: %s\n", strings.Join(plan.NewCitations, "; ")))
	}
	if len(plan.Diffs) > 0 {
		sb.WriteString(fmt.Sprintf("\nNeeds review (%d):\n", len(plan.Diffs)))
		for _, d := range plan.Diffs {
			sb.WriteString(fmt.Sprintf("⚠ %s\n", d.Field))
			sb.WriteString(fmt.Sprintf("  internal: %s\n", d.Internal))
			sb.WriteString(fmt.Sprintf("  external: %s\n", d.External))
		}
	}

	p.printBox("RECONCILIATION PLAN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCourt outputs how a court name was resolved.
func (p *Printer) PrintCourt(name string, r courts.Result) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:   %s\n", name))
	if !r.Resolved() {
		sb.WriteString("Court:  unresolved")
	} else {
		sb.WriteString(fmt.Sprintf("Court:  %s\n", r.CourtID))
		sb.WriteString(fmt.Sprintf("Stage:  %s", r.Stage))
		if r.Jurisdiction != "" {
			sb.WriteString(fmt.Sprintf("\nState:  %s", r.Jurisdiction))
		}
	}
	p.printBox("COURT RESOLUTION", sb.String())
}

// PrintCasebody outputs the fields extracted from one source document.
func (p *Printer) PrintCasebody(doc *types.SourceDocument, body *markup.Casebody) {
	if doc == nil || body == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Case:     %s\n", doc.CaseName))
	sb.WriteString(fmt.Sprintf("Date:     %s\n", doc.DecisionDate))
	if body.DocketNumber != "" {
		sb.WriteString(fmt.Sprintf("Docket:   %s\n", body.DocketNumber))
	}
	if len(body.Judges) > 0 {
		sb.WriteString(fmt.Sprintf("Judges:   %s\n", markup.FormatJudges(body.Judges)))
	}
	if body.Attorneys != "" {
		sb.WriteString(fmt.Sprintf("Counsel:  %s\n", body.Attorneys))
	}
	if body.Disposition != "" {
		sb.WriteString(fmt.Sprintf("Result:   %s\n", body.Disposition))
	}

	sb.WriteString(fmt.Sprintf("\nOpinions (%d):\n", len(body.Opinions)))
	for _, op := range body.Opinions {
		author := op.Author.Name
		if author == "" {
			author = "(no author)"
		}
		sb.WriteString(fmt.Sprintf("  • %s  %s\n", op.Type, author))
	}

	p.printBox("PARSED CASEBODY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReviews outputs queued review entries.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintReviews(reviews []types.PendingReview) {
	if len(reviews) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO PENDING REVIEWS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pending: %d\n\n", len(reviews)))
	for i, r := range reviews {
		sb.WriteString(fmt.Sprintf("⚠ %s  %s\n", r.Kind, r.ID))
		if r.ClusterID != 0 {
			sb.WriteString(fmt.Sprintf("  cluster %d\n", r.ClusterID))
		}
		if r.SourceKey != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", r.SourceKey))
		}
		for _, d := range r.Diffs {
			sb.WriteString(fmt.Sprintf("  %s: %s | %s\n", d.Field, d.Internal, d.External))
		}
		if len(r.Candidates) > 0 {
			ids := make([]string, len(r.Candidates))
			for j, c := range r.Candidates {
				ids[j] = fmt.Sprint(c)
			}
			sb.WriteString(fmt.Sprintf("  candidates: %s\n", strings.Join(ids, ", ")))
		}
		if i < len(reviews)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("PENDING REVIEWS", strings.TrimSuffix(sb.String(), "\n"))
}
