// Package observability provides verbose CLI output and Prometheus metrics for fit scoring.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/recruiting-platform/internal/parsing"
	"github.com/jonathan/recruiting-platform/internal/ranking"
	"github.com/jonathan/recruiting-platform/internal/types"
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

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		// Truncate long lines
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// scoreBar renders a score in [0,1] as a ten-cell bar.
func scoreBar(score float64) string {
	filled := int(score*10 + 0.5)
	filled = max(0, min(10, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

// PrintFitScore outputs a human-readable breakdown of one fit score.
func (p *Printer) PrintFitScore(result *types.FitScoreResult) {
	if result == nil {
		return
	}

	var sb strings.Builder

	if result.Breakdown.Job.Title != "" {
		sb.WriteString(fmt.Sprintf("Job:       %s\n", result.Breakdown.Job.Title))
	}
	if result.Breakdown.Candidate.Name != "" {
		sb.WriteString(fmt.Sprintf("Candidate: %s\n", result.Breakdown.Candidate.Name))
	}
	sb.WriteString(fmt.Sprintf("Overall:   %.2f %s\n\n", result.OverallScore, scoreBar(result.OverallScore)))

	rows := []struct {
		label  string
		score  float64
		weight float64
	}{
		{"Skills", result.SkillMatch, result.Weights.Skill},
		{"Experience", result.ExperienceMatch, result.Weights.Experience},
		{"Education", result.EducationMatch, result.Weights.Education},
		{"Location", result.LocationMatch, result.Weights.Location},
		{"Culture", result.CultureFit, result.Weights.Culture},
	}
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("  %-11s %.2f %s  (w %.2f)\n", row.label, row.score, scoreBar(row.score), row.weight))
	}

	if len(result.Breakdown.Skills.Unmatched) > 0 {
		missing := result.Breakdown.Skills.Unmatched
		count := min(len(missing), maxItemsToShow)
		sb.WriteString(fmt.Sprintf("\nMissing skills: %s", strings.Join(missing[:count], ", ")))
		if len(missing) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf(" (+%d)", len(missing)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if source := result.Breakdown.Culture.Source; source != "" && source != types.CultureFromJudge {
		sb.WriteString(fmt.Sprintf("Culture fit neutral (%s)\n", source))
	}

	if len(result.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("  • %s\n", rec))
		}
	}

	p.printBox("FIT SCORE", sb.String())
}

// PrintRankedCandidates outputs the top of a ranked candidate list.
func (p *Printer) PrintRankedCandidates(ranked []ranking.RankedCandidate) {
	if len(ranked) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates ranked: %d\n\n", len(ranked)))

	count := min(len(ranked), maxItemsToShow)
	for i := 0; i < count; i++ {
		entry := ranked[i]
		label := entry.CandidateID
		if entry.Name != "" {
			label = fmt.Sprintf("%s (%s)", entry.Name, entry.CandidateID)
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", entry.Rank, label))
		if entry.Result != nil {
			sb.WriteString(fmt.Sprintf("    Score: %.2f\n", entry.Result.OverallScore))
		}
		if entry.Notes != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", entry.Notes))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(ranked)-maxItemsToShow))
	}

	p.printBox("TOP RANKED CANDIDATES", sb.String())
}

// PrintJobRequirements outputs a summary of parsed job requirements.
func (p *Printer) PrintJobRequirements(result *parsing.JobParseResult) {
	if result == nil {
		return
	}

	req := result.Requirements
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Title:     %s\n", req.Title))
	if years, ok := types.ValidYears(req.MinYearsExperience); ok {
		sb.WriteString(fmt.Sprintf("Years:     %.1f+\n", years))
	}
	if req.RequiredEducation != "" {
		sb.WriteString(fmt.Sprintf("Education: %s\n", req.RequiredEducation))
	}
	if req.Location != "" {
		sb.WriteString(fmt.Sprintf("Location:  %s\n", req.Location))
	}
	sb.WriteString(fmt.Sprintf("Method:    %s\n", result.Method))
	if result.FallbackReason != "" {
		sb.WriteString(fmt.Sprintf("Fallback:  %s\n", result.FallbackReason))
	}

	if len(req.RequiredSkills) > 0 {
		sb.WriteString("\nRequired Skills:\n")
		count := min(len(req.RequiredSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", req.RequiredSkills[i]))
		}
		if len(req.RequiredSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(req.RequiredSkills)-maxItemsToShow))
		}
	}

	if len(result.PreferredSkills) > 0 {
		sb.WriteString(fmt.Sprintf("\nPreferred: %s\n", strings.Join(result.PreferredSkills, ", ")))
	}

	p.printBox("PARSED JOB REQUIREMENTS", sb.String())
}
