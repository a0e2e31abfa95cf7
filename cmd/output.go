package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/n-v-nam/github-quickactions/internal/domain"
)

var (
	colorCyan     = lipgloss.Color("#00FFFF")
	colorGreen    = lipgloss.Color("#00FF00")
	colorYellow   = lipgloss.Color("#FFFF00")
	colorRed      = lipgloss.Color("#FF0000")
	colorDarkGray = lipgloss.Color("8")

	progressStyle = lipgloss.NewStyle().Foreground(colorDarkGray)
	successStyle  = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	failureStyle  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	dryRunStyle   = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	headerStyle   = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	keyStyle      = lipgloss.NewStyle().Foreground(colorCyan)
)

// printer renders progress lines and workflow results
type printer struct {
	out io.Writer
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out}
}

func (p *printer) Progress(message string) {
	fmt.Fprintln(p.out, progressStyle.Render("  "+message))
}

func (p *printer) Result(success bool, message string) {
	style := successStyle
	switch {
	case !success:
		style = failureStyle
	case strings.HasPrefix(message, domain.DryRunPrefix):
		style = dryRunStyle
	}
	fmt.Fprintln(p.out, style.Render(message))
}

func (p *printer) Header(title string) {
	dashes := strings.Repeat("─", max(25-len(title), 0))
	fmt.Fprintln(p.out, headerStyle.Render("─── "+title+" "+dashes))
}

func (p *printer) Field(key, value string) {
	fmt.Fprintf(p.out, "  %s %s\n", keyStyle.Render(key+":"), value)
}

func (p *printer) Line(format string, args ...any) {
	fmt.Fprintf(p.out, "  "+format+"\n", args...)
}

func (p *printer) PullRequests(prs []domain.PullRequestSummary) {
	if len(prs) == 0 {
		p.Line("no open pull requests")
		return
	}
	for _, pr := range prs {
		p.Line("#%-5d %-8s %s (%s)", pr.Number, ciBadge(pr.CIStatus), pr.Title, pr.Author)
	}
}

func (p *printer) CheckResults(results []domain.PRCheckResult) {
	for _, r := range results {
		p.Line("%s", r.Summary())
	}
}

func (p *printer) MergeResults(results []domain.PRMergeResult) {
	for _, r := range results {
		line := fmt.Sprintf("PR #%d: %s", r.Number, r.Outcome)
		if r.Reason != "" {
			line += " (" + r.Reason + ")"
		}
		p.Line("%s", line)
	}
}

func (p *printer) Run(record *domain.RunRecord) {
	p.Header(record.Workflow)
	p.Field("run", record.RunID)
	p.Field("repo", record.Repo)
	p.Field("mode", string(record.Mode))
	p.Field("status", string(record.Status))
	p.Field("started", record.StartedAt.Format("2006-01-02 15:04:05"))
	if record.Message != "" {
		p.Field("result", record.Message)
	}
	for i, step := range record.Steps {
		line := fmt.Sprintf("%2d. %-9s %s", i+1, step.Status, step.Name)
		if step.Error != "" {
			line += ": " + step.Error
		}
		p.Line("%s", line)
	}
}

func ciBadge(status domain.CIStatus) string {
	switch status {
	case domain.CIStatusPassing:
		return successStyle.Render("✓ ci")
	case domain.CIStatusFailing:
		return failureStyle.Render("✗ ci")
	default:
		return dryRunStyle.Render("… ci")
	}
}
