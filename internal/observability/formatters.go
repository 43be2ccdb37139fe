// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/cv-insight/internal/analytics"
	"github.com/jonathan/cv-insight/internal/pipeline"
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
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysisResult outputs a human-readable summary of one pipeline run.
func (p *Printer) PrintAnalysisResult(result *pipeline.AnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status:   %s\n", result.ProcessingInfo.Status))
	sb.WriteString(fmt.Sprintf("Duration: %.2fs\n", result.ProcessingInfo.ProcessingTime))
	if result.Error != "" {
		sb.WriteString(fmt.Sprintf("Error:    %s\n", result.Error))
	}

	if result.Analytics != nil {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Completeness:    %.1f%%\n", result.Analytics.ProfileCompleteness))
		sb.WriteString(fmt.Sprintf("Skill diversity: %d\n", result.Analytics.SkillDiversity))
		sb.WriteString(fmt.Sprintf("Experience:      %s\n", result.Analytics.ExperienceLevel))
		sb.WriteString(fmt.Sprintf("Confidence:      %.2f\n", result.Analytics.CareerConfidence))
		sb.WriteString(fmt.Sprintf("Recommendations: %d\n", result.Analytics.RecommendationsCount))
	}

	if profile, ok := result.ProfileAnalysis.(map[string]any); ok {
		if summary, ok := profile["summary"].(string); ok && summary != "" {
			sb.WriteString("\nSummary:\n")
			sb.WriteString(fmt.Sprintf("  %s\n", summary))
		}
	}

	p.printBox("CV ANALYSIS RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendation outputs a quick recommendation envelope.
func (p *Printer) PrintRecommendation(env *pipeline.RecommendationEnvelope) {
	if env == nil {
		return
	}

	var sb strings.Builder
	if !env.Success {
		sb.WriteString(fmt.Sprintf("Failed: %s", env.Error))
		p.printBox("CAREER RECOMMENDATION", sb.String())
		return
	}

	sb.WriteString(fmt.Sprintf("Duration: %.2fs\n", env.ProcessingTime))

	career, ok := env.CareerRecommendation.(map[string]any)
	if !ok {
		sb.WriteString("\nRecommendation returned as unstructured text")
		p.printBox("CAREER RECOMMENDATION", sb.String())
		return
	}

	if role, ok := career["primary_role"].(string); ok && role != "" {
		sb.WriteString(fmt.Sprintf("Role:     %s\n", role))
	}
	if confidence, ok := career["confidence_score"].(float64); ok {
		sb.WriteString(fmt.Sprintf("Confidence: %.2f\n", confidence))
	}

	if alternatives, ok := career["alternative_roles"].([]any); ok && len(alternatives) > 0 {
		sb.WriteString("\nAlternatives:\n")
		count := min(len(alternatives), maxItemsToShow)
		for i := 0; i < count; i++ {
			if role, ok := alternatives[i].(string); ok {
				sb.WriteString(fmt.Sprintf("  • %s\n", role))
			}
		}
		if len(alternatives) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(alternatives)-maxItemsToShow))
		}
	}

	p.printBox("CAREER RECOMMENDATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQuestions outputs a generated question set summary.
func (p *Printer) PrintQuestions(env *pipeline.QuestionsEnvelope) {
	if env == nil {
		return
	}

	var sb strings.Builder
	if !env.Success {
		sb.WriteString(fmt.Sprintf("Failed: %s", env.Error))
		p.printBox("INTERVIEW QUESTIONS", sb.String())
		return
	}

	sb.WriteString(fmt.Sprintf("Role:       %s\n", env.TargetRole))
	sb.WriteString(fmt.Sprintf("Difficulty: %s\n", env.DifficultyLevel))

	if questionSet, ok := env.Questions.(map[string]any); ok {
		if questions, ok := questionSet["questions"].([]any); ok {
			sb.WriteString(fmt.Sprintf("Questions:  %d\n\n", len(questions)))
			count := min(len(questions), maxItemsToShow)
			for i := 0; i < count; i++ {
				if q, ok := questions[i].(map[string]any); ok {
					if text, ok := q["question"].(string); ok {
						if len(text) > 50 {
							text = text[:47] + "..."
						}
						sb.WriteString(fmt.Sprintf("• %s\n", text))
					}
				}
			}
			if len(questions) > maxItemsToShow {
				sb.WriteString(fmt.Sprintf("\n... and %d more questions", len(questions)-maxItemsToShow))
			}
		}
	}

	p.printBox("INTERVIEW QUESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDashboard outputs the overview summary for operators.
func (p *Printer) PrintDashboard(data *analytics.DashboardData) {
	if data == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Window:       last %d days\n", data.Period.Days))
	sb.WriteString(fmt.Sprintf("CVs:          %d (%.1f%% success)\n",
		data.CVAnalytics.TotalCVsProcessed, data.CVAnalytics.SuccessRate))
	sb.WriteString(fmt.Sprintf("Interviews:   %d (%.1f%% completed)\n",
		data.InterviewAnalytics.TotalInterviewSessions, data.InterviewAnalytics.CompletionRate))
	sb.WriteString(fmt.Sprintf("Health score: %.1f\n", data.Summary.HealthScore))

	if len(data.CVAnalytics.FileTypes) > 0 {
		sb.WriteString("\nFile types:\n")
		fileTypes := make([]string, 0, len(data.CVAnalytics.FileTypes))
		for fileType := range data.CVAnalytics.FileTypes {
			fileTypes = append(fileTypes, fileType)
		}
		sort.Strings(fileTypes)
		for _, fileType := range fileTypes {
			sb.WriteString(fmt.Sprintf("  %s: %d\n", fileType, data.CVAnalytics.FileTypes[fileType]))
		}
	}

	p.printBox("DASHBOARD OVERVIEW", strings.TrimSuffix(sb.String(), "\n"))
}
