// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/essay-engine/pkg/types"
)

const (
	minSentenceLength = 40
	maxSentences      = 8
	maxBodyParagraphs = 3
)

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// stancePhrases are the fixed clauses the template composer uses per stance.
type stancePhrases struct {
	intro      string // format: topic, date
	body       string
	conclusion string // format: topic
}

var phrases = map[types.Stance]stancePhrases{
	types.StancePositive: {
		intro:      "Examining %s as of %s reveals significant progress and promising developments. ",
		body:       "This development demonstrates meaningful progress with practical implications.",
		conclusion: "The trajectory for %s indicates continued growth and expanding opportunities. Current evidence supports optimism about future developments.",
	},
	types.StanceNegative: {
		intro:      "Analyzing %s as of %s uncovers substantial challenges and concerns. ",
		body:       "This situation raises important questions about viability and potential risks.",
		conclusion: "The challenges facing %s require immediate attention and careful consideration. Current indicators suggest caution moving forward.",
	},
	types.StanceNeutral: {
		intro:      "Understanding %s as of %s requires examining multiple perspectives. ",
		body:       "The outcomes depend significantly on implementation context and specific conditions.",
		conclusion: "The future of %s depends on balancing opportunities with challenges. Success requires realistic expectations and strategic implementation.",
	},
}

func phrasesFor(stance types.Stance) stancePhrases {
	if p, ok := phrases[stance]; ok {
		return p
	}
	return phrases[types.StanceNeutral]
}

// usableSentences splits research on sentence punctuation and keeps the
// first few sentences long enough to carry a fact. Length is counted in
// characters, not bytes.
func usableSentences(research string) []string {
	var out []string
	for _, s := range sentenceSplit.Split(research, -1) {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) <= minSentenceLength {
			continue
		}
		out = append(out, s)
		if len(out) == maxSentences {
			break
		}
	}
	return out
}

// composeFromTemplate writes a short stance-matched essay from research
// sentences. It is pure and always returns non-empty content.
func composeFromTemplate(topic string, stance types.Stance, research, date string) string {
	p := phrasesFor(stance)
	sentences := usableSentences(research)

	paragraphs := make([]string, 0, maxBodyParagraphs+2)

	intro := fmt.Sprintf(p.intro, topic, date)
	if len(sentences) > 0 {
		intro += sentences[0] + "."
	}
	paragraphs = append(paragraphs, intro)

	for i := 1; i < len(sentences) && i <= maxBodyParagraphs; i++ {
		paragraphs = append(paragraphs, sentences[i]+". "+p.body)
	}

	paragraphs = append(paragraphs, fmt.Sprintf(p.conclusion, topic))

	return strings.Join(paragraphs, "\n\n") + templateFooter(date)
}

func templateFooter(date string) string {
	return fmt.Sprintf("\n\n---\n*Content based on available research as of %s*", date)
}

func generatedFooter(date string) string {
	return fmt.Sprintf("\n\n---\n*AI-generated content based on current web research as of %s*", date)
}
