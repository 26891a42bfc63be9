package web

import "strings"

const defaultPanelTitle = "Summary"

// SummaryPanel is a titled card showing free-text analysis output. Each line
// of Summary becomes its own paragraph; the text is otherwise shown as-is.
type SummaryPanel struct {
	Title   string
	Summary string
}

func NewSummaryPanel(title, summary string) SummaryPanel {
	if strings.TrimSpace(title) == "" {
		title = defaultPanelTitle
	}
	return SummaryPanel{Title: title, Summary: summary}
}

func (p SummaryPanel) Paragraphs() []string {
	if p.Summary == "" {
		return nil
	}
	s := strings.ReplaceAll(p.Summary, "\r\n", "\n")
	return strings.Split(s, "\n")
}
