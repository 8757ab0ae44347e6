package compare

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("202"))
)

// PrintSummary writes a per-image table and the run totals to w.
func PrintSummary(w io.Writer, s *Summary) {
	nameWidth := len("Image")
	for _, r := range s.Results {
		if len(r.Name) > nameWidth {
			nameWidth = len(r.Name)
		}
	}

	row := func(cells ...string) string {
		return fmt.Sprintf("%-*s  %-13s  %9s  %7s  %9s  %7s  %s", nameWidth,
			cells[0], cells[1], cells[2], cells[3], cells[4], cells[5], cells[6])
	}

	fmt.Fprintln(w, headerStyle.Render(row("Image", "Format", "Size", "Custom", "Reference", "Jaccard", "Status")))
	for _, r := range s.Results {
		size := fmt.Sprintf("%dx%d", r.Width, r.Height)
		format := strings.TrimSpace(r.Format + " " + r.ColorDepth)
		if r.Err != nil {
			fmt.Fprintln(w, row(r.Name, format, size, "-", "-", "-", failStyle.Render("failed: "+r.Err.Error())))
			continue
		}
		fmt.Fprintln(w, row(r.Name, format, size,
			fmt.Sprint(r.CustomCorners),
			fmt.Sprint(r.ReferenceCorners),
			fmt.Sprintf("%.3f", r.Agreement.Jaccard),
			okStyle.Render("ok")))
	}

	if len(s.Skipped) > 0 {
		names := make([]string, len(s.Skipped))
		for i, sk := range s.Skipped {
			names[i] = sk.Name
		}
		fmt.Fprintln(w, dimStyle.Render("Skipped unreadable files: "+strings.Join(names, ", ")))
	}

	fmt.Fprintf(w, "Processed %d, failed %d, skipped %d in %s\n",
		s.Processed(), s.Failed, len(s.Skipped), timeStyle.Render(s.Duration.Round(time.Millisecond).String()))
}
