package slack

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/slack-go/slack"
)

const (
	maxHeaderChars  = 150
	maxSectionBytes = 3000
	maxListedItems  = 5
)

var categoryEmoji = map[types.RiskCategory]string{
	types.RiskCategoryProhibited:  ":no_entry:",
	types.RiskCategoryHighRisk:    ":red_circle:",
	types.RiskCategoryLimitedRisk: ":large_yellow_circle:",
	types.RiskCategoryMinimalRisk: ":large_green_circle:",
	types.RiskCategoryUnknown:     ":grey_question:",
}

// AssessmentBlocks builds the Block Kit summary of an assessment and the
// plain-text fallback
func AssessmentBlocks(a *model.Assessment) ([]slack.Block, string) {
	category := a.Category()
	name := a.SystemName
	if name == "" {
		name = "Unnamed AI System"
	}

	header := truncateRunes("EU AI Act assessment: "+name, maxHeaderChars)
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, header, false, false)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			markdown(fmt.Sprintf("*Risk category*\n%s %s", categoryEmoji[category], category.DisplayName())),
			markdown(fmt.Sprintf("*Compliance level*\n%s", a.ComplianceLevel())),
			markdown(fmt.Sprintf("*Overall score*\n%.1f%%", a.OverallScore*100)),
			markdown(fmt.Sprintf("*Documents*\n%d", len(a.Sources))),
		}, nil),
	}

	if category == types.RiskCategoryUnknown {
		blocks = append(blocks, slack.NewSectionBlock(
			markdown(":warning: The risk category could not be determined; manual review recommended."), nil, nil))
	}

	if a.Classification != nil && len(a.Classification.Matches) > 0 {
		var lines []string
		for _, m := range limit(a.Classification.Matches) {
			lines = append(lines, fmt.Sprintf("• [%s] `%s`", m.Category.DisplayName(), m.Excerpt))
		}
		blocks = append(blocks, listSection("Matched indicators", lines, len(a.Classification.Matches)))
	}

	if gaps := a.Gaps(); len(gaps) > 0 {
		var lines []string
		for _, g := range limit(gaps) {
			lines = append(lines, fmt.Sprintf("• *%s* (%s): %s", g.Area.DisplayName(), g.Severity, g.Description))
		}
		blocks = append(blocks, listSection("Compliance gaps", lines, len(gaps)))
	}

	if p := a.Prohibition; p != nil && len(p.Articles) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(
			markdown("*Prohibited practices*: Article "+strings.Join(p.Articles, ", Article ")), nil, nil))
	}

	blocks = append(blocks,
		slack.NewDividerBlock(),
		slack.NewContextBlock("", markdown(fmt.Sprintf("Assessment ID: `%s`", a.ID))),
	)

	text := fmt.Sprintf("%s: %s (%s)", name, category.DisplayName(), a.ComplianceLevel())
	return blocks, text
}

func markdown(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, truncateToMaxBytes(text, maxSectionBytes), false, false)
}

func listSection(title string, lines []string, total int) *slack.SectionBlock {
	body := "*" + title + "*\n" + strings.Join(lines, "\n")
	if total > len(lines) {
		body += fmt.Sprintf("\n_and %d more_", total-len(lines))
	}
	return slack.NewSectionBlock(markdown(body), nil, nil)
}

func limit[T any](items []T) []T {
	if len(items) > maxListedItems {
		return items[:maxListedItems]
	}
	return items
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

// truncateToMaxBytes cuts s to at most maxBytes bytes without splitting a
// UTF-8 sequence
func truncateToMaxBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
