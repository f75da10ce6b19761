// Package report renders a sync run summary as a terminal table and as a
// markdown document with YAML frontmatter.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/alanmeadows/autosync/internal/store"
	"github.com/alanmeadows/autosync/internal/syncer"
)

// Render writes the per-pair outcome table followed by a one-line tally.
func Render(w io.Writer, r *syncer.Report) error {
	if len(r.Outcomes) == 0 {
		_, err := fmt.Fprintln(w, "No branch pairs processed.")
		return err
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	failStyle := cellStyle.Foreground(lipgloss.Color("9"))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("238"))).
		Headers("Base", "Destination", "Outcome", "Request", "Detail").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 2 && r.Outcomes[row].Kind == syncer.Failed {
				return failStyle
			}
			return cellStyle
		})

	for _, o := range r.Outcomes {
		t = t.Row(o.Pair.Base, o.Pair.Destination, kindLabel(o), requestCell(o), detail(o))
	}

	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, tally(r))
	return err
}

func kindLabel(o syncer.Outcome) string {
	if o.DryRun {
		return o.Kind.String() + " (dry run)"
	}
	return o.Kind.String()
}

func requestCell(o syncer.Outcome) string {
	if o.RequestNumber == 0 {
		return "·"
	}
	return "#" + strconv.Itoa(o.RequestNumber)
}

func detail(o syncer.Outcome) string {
	switch {
	case o.Reason != "":
		return o.Reason
	case o.ResolutionBranch != "":
		return "via " + o.ResolutionBranch
	case len(o.Conflicts) > 0:
		return strings.Join(o.Conflicts, ", ")
	default:
		return ""
	}
}

func tally(r *syncer.Report) string {
	var parts []string
	for _, k := range syncer.AllOutcomeKinds {
		if n := r.Count(k); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	return fmt.Sprintf("run %s: %s in %s", r.RunID, strings.Join(parts, ", "),
		r.Finished.Sub(r.Started).Round(time.Millisecond))
}

// header is the YAML front matter of a stored report. Counts are keyed by
// outcome kind so other tooling can read a run without parsing the body.
type header struct {
	RunID    string         `yaml:"run_id"`
	Started  time.Time      `yaml:"started"`
	Finished time.Time      `yaml:"finished"`
	Pairs    int            `yaml:"pairs"`
	Counts   map[string]int `yaml:"counts"`
}

// WriteMarkdown stores the report at path as markdown with a YAML header.
func WriteMarkdown(path string, r *syncer.Report) error {
	h := header{
		RunID:    r.RunID,
		Started:  r.Started.UTC(),
		Finished: r.Finished.UTC(),
		Pairs:    len(r.Outcomes),
		Counts:   make(map[string]int, len(syncer.AllOutcomeKinds)),
	}
	for _, k := range syncer.AllOutcomeKinds {
		h.Counts[k.String()] = r.Count(k)
	}

	if err := store.WriteDocument(path, h, markdownBody(r)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func markdownBody(r *syncer.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Sync run %s\n\n", r.RunID)
	b.WriteString("| Base | Destination | Outcome | Request | Detail |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, o := range r.Outcomes {
		req := requestCell(o)
		if o.RequestURL != "" {
			req = fmt.Sprintf("[%s](%s)", req, o.RequestURL)
		}
		fmt.Fprintf(&b, "| `%s` | `%s` | %s | %s | %s |\n",
			o.Pair.Base, o.Pair.Destination, kindLabel(o), req, strings.ReplaceAll(detail(o), "|", `\|`))
	}

	for _, o := range r.Outcomes {
		if len(o.Conflicts) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## Conflicts: %s\n\n", o.Pair)
		for _, p := range o.Conflicts {
			fmt.Fprintf(&b, "- `%s`\n", p)
		}
	}
	return b.String()
}

// Summary is the header view of a stored report.
type Summary struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Pairs    int
	Counts   map[syncer.OutcomeKind]int
}

// ReadSummary loads the header of a report written by WriteMarkdown.
func ReadSummary(path string) (*Summary, error) {
	var h header
	if _, err := store.ReadDocument(path, &h); err != nil {
		return nil, fmt.Errorf("%s is not a sync report: %w", path, err)
	}
	if h.RunID == "" {
		return nil, fmt.Errorf("%s is not a sync report: missing run_id", path)
	}

	s := &Summary{
		RunID:    h.RunID,
		Started:  h.Started,
		Finished: h.Finished,
		Pairs:    h.Pairs,
		Counts:   make(map[syncer.OutcomeKind]int),
	}
	for _, k := range syncer.AllOutcomeKinds {
		s.Counts[k] = h.Counts[k.String()]
	}
	return s, nil
}
