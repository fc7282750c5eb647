package notify

import (
	"fmt"
	"io"
	"strings"

	"github.com/mikey/email-munger/internal/core"
)

// renderReport writes the plain-text triage report.
func renderReport(w io.Writer, report *core.RunReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Munging run %s\n", report.RunID)
	if report.Resumed {
		b.WriteString("Resumed from snapshot\n")
	}
	fmt.Fprintf(&b, "Started:  %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Finished: %s\n\n", report.FinishedAt.Format("2006-01-02 15:04:05 MST"))

	fmt.Fprintf(&b, "Documents:      %d\n", report.Documents)
	fmt.Fprintf(&b, "Emails:         %d (%d genuine)\n", report.Emails, report.GenuineEmails)
	fmt.Fprintf(&b, "Contacts:       %d (%d clustered)\n", report.Contacts, report.Clustered)
	fmt.Fprintf(&b, "Profiles:       %d after %d merges in %d passes\n", len(report.Profiles), report.Merges, report.Passes)
	fmt.Fprintf(&b, "Flagged:        %d\n", len(report.Flagged))

	if len(report.Flagged) > 0 {
		b.WriteString("\nDocuments to review by hand:\n")
		for _, f := range report.Flagged {
			fmt.Fprintf(&b, "  %s\n", f.ID)
			for _, reason := range f.Reasons {
				fmt.Fprintf(&b, "    - %s\n", reason)
			}
		}
	}

	if len(report.Suggestions) > 0 {
		b.WriteString("\nSuggested contact repairs:\n")
		for _, s := range report.Suggestions {
			fmt.Fprintf(&b, "  [%s] %q\n", s.DocumentID, s.Raw)
			fmt.Fprintf(&b, "    -> %s <%s> (confidence %.2f, %s)\n", s.Name, s.Address, s.Confidence, s.ModelUsed)
			if s.Explanation != "" {
				fmt.Fprintf(&b, "       %s\n", s.Explanation)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
