package segmenter

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
)

// MinClauseRunes is the exclusive lower bound on clause text length.
// Shorter spans are headers or fragments with nothing to match against.
const MinClauseRunes = 50

// Segment turns extracted pages into clauses. Headings close the text block
// gathered so far; junk lines are dropped. Title state resets on every page.
func Segment(pages []entities.PageText, source string) []entities.Clause {
	var clauses []entities.Clause

	for _, page := range pages {
		title := entities.DefaultTitle
		var block strings.Builder

		flush := func() {
			text := normalize(block.String())
			block.Reset()
			if text == "" {
				return
			}
			clauses = append(clauses, entities.Clause{
				ID:         uuid.New().String(),
				PageNumber: page.PageNumber,
				Title:      title,
				Text:       text,
				Source:     source,
			})
		}

		for _, line := range page.Lines {
			switch {
			case IsTitle(line):
				flush()
				title = strings.TrimSpace(line)
			case !IsJunk(line):
				block.WriteByte(' ')
				block.WriteString(strings.TrimSpace(line))
			}
		}
		flush()
	}

	kept := clauses[:0]
	for _, c := range clauses {
		if utf8.RuneCountInString(c.Text) > MinClauseRunes {
			kept = append(kept, c)
		}
	}
	return kept
}

// normalize collapses every whitespace run to a single space.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
