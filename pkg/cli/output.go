package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	domainConfig "github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
)

var categoryColors = map[types.RiskCategory]*color.Color{
	types.RiskCategoryProhibited:  color.New(color.FgRed, color.Bold),
	types.RiskCategoryHighRisk:    color.New(color.FgRed),
	types.RiskCategoryLimitedRisk: color.New(color.FgYellow),
	types.RiskCategoryMinimalRisk: color.New(color.FgGreen),
	types.RiskCategoryUnknown:     color.New(color.FgHiBlack),
}

var (
	labelColor = color.New(color.Bold)
	passColor  = color.New(color.FgGreen, color.Bold)
	failColor  = color.New(color.FgRed, color.Bold)
)

func categoryLabel(c types.RiskCategory) string {
	if col, ok := categoryColors[c]; ok {
		return col.Sprint(c.DisplayName())
	}
	return c.DisplayName()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to write JSON output")
	}
	return nil
}

func printClassification(w io.Writer, fc usecase.FileClassification, thresholds map[types.RiskCategory]float64) {
	r := fc.Result
	fmt.Fprintf(w, "%s: %s", labelColor.Sprint(fc.Path), categoryLabel(r.Category))
	if r.Overridden {
		fmt.Fprintf(w, " (fixture hint %q)", r.Hint)
	}
	fmt.Fprintln(w)

	for _, c := range types.ScoredRiskCategories() {
		score := r.Scores.Score(c)
		threshold, ok := thresholds[c]
		line := fmt.Sprintf("  %-13s %s", c.DisplayName(), formatNumber(score))
		if ok {
			line += fmt.Sprintf(" / %s", formatNumber(threshold))
		}
		switch {
		case c == r.Category:
			line += " " + categoryLabel(c)
		case ok && score >= threshold:
			line += " (near miss)"
		}
		fmt.Fprintln(w, line)
	}

	for _, m := range r.Matches {
		fmt.Fprintf(w, "    - [%s] %q (weight %s)\n", m.Category.DisplayName(), m.Excerpt, formatNumber(m.Weight))
	}
}

func printSuite(w io.Writer, result *usecase.SuiteResult) {
	for _, c := range result.Cases {
		mark := passColor.Sprint("PASS")
		if !c.Passed {
			mark = failColor.Sprint("FAIL")
		}
		fmt.Fprintf(w, "%s %s expected=%s detected=%s", mark, c.Path, c.Expected, categoryLabel(c.Detected))
		if c.Overridden {
			fmt.Fprint(w, " (overridden)")
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	for _, cat := range types.AllRiskCategories() {
		paths := result.Groups[cat]
		if len(paths) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%d)\n", categoryLabel(cat), len(paths))
		for _, p := range paths {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}

	summary := passColor
	if !result.OK() {
		summary = failColor
	}
	fmt.Fprintln(w, summary.Sprintf("\n%d passed, %d failed", result.Passed, result.Failed))
}

func printAssessment(w io.Writer, out *usecase.AssessOutput) {
	a := out.Assessment
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Assessment:"), a.ID)
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("System:"), a.SystemName)
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Risk category:"), categoryLabel(a.Category()))
	fmt.Fprintf(w, "%s %.1f%% (%s)\n", labelColor.Sprint("Overall score:"), a.OverallScore*100, a.ComplianceLevel())

	if gaps := a.Gaps(); len(gaps) > 0 {
		fmt.Fprintln(w, labelColor.Sprint("Gaps:"))
		for _, g := range gaps {
			fmt.Fprintf(w, "  - [%s] %s: %s\n", g.Severity, g.Area.DisplayName(), g.Description)
		}
	}
	if a.Suggestion != nil {
		fmt.Fprintf(w, "%s %s (%s)\n", labelColor.Sprint("LLM suggestion:"), a.Suggestion.Category.DisplayName(), a.Suggestion.Rationale)
	}

	if out.Report != nil {
		for _, f := range out.Report.Files {
			fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Report:"), f)
		}
		for _, u := range out.Report.Uploads {
			fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Uploaded:"), u)
		}
	}
}

func printTables(w io.Writer, cfg *domainConfig.ClassifierConfig) {
	for _, table := range cfg.Tables {
		fmt.Fprintf(w, "%s threshold=%s indicators=%d\n",
			categoryLabel(table.Category), formatNumber(table.Threshold), len(table.Indicators))
		for _, ind := range table.Indicators {
			fmt.Fprintf(w, "  %5s  %s\n", formatNumber(ind.Weight), ind.Pattern)
		}
	}
}
