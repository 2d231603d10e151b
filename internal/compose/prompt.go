// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/essay-engine/pkg/types"
)

// researchPromptLimit is the number of research characters sent to the generator.
const researchPromptLimit = 4000

// toneInstructions holds one fixed tone template per stance.
var toneInstructions = map[types.Stance]string{
	types.StancePositive: `Write in an OPTIMISTIC and ENCOURAGING tone:
- Highlight benefits, opportunities, and positive developments
- Emphasize success stories and achievements
- Focus on potential and promising future prospects
- Use positive language and forward-looking statements`,
	types.StanceNegative: `Write in a CRITICAL and CAUTIONARY tone:
- Emphasize challenges, risks, and concerns
- Highlight problems and limitations
- Focus on obstacles and potential failures
- Use skeptical language and warning statements`,
	types.StanceNeutral: `Write in a BALANCED and OBJECTIVE tone:
- Present both opportunities and challenges equally
- Include multiple perspectives
- Acknowledge complexity and nuance
- Use neutral, analytical language`,
}

// toneFor returns the tone instruction for stance; unknown stances get the
// balanced tone.
func toneFor(stance types.Stance) string {
	if t, ok := toneInstructions[stance]; ok {
		return t
	}
	return toneInstructions[types.StanceNeutral]
}

var systemPromptTmpl = template.Must(template.New("system").Parse(`You are an expert content writer specializing in research-based essays.

TASK: Write a comprehensive, well-structured essay about the given topic.

REQUIREMENTS:
- Length: Approximately {{.TargetWords}} words
- Structure: Introduction, 3-4 body paragraphs, strong conclusion
- Style: Professional, engaging, flowing prose (NO bullet points or lists)
- Content: Use the provided research as your factual foundation
- Date context: Include current date references ({{.Date}})
- Tone: {{.Tone}}

IMPORTANT:
- Base your essay on the provided research
- Include specific facts, statistics, and examples from the research
- Make it informative and authoritative
- Write in complete, flowing paragraphs`))

var userPromptTmpl = template.Must(template.New("user").Parse(`Topic: {{.Topic}}

Research Material:
{{.Research}}

Write a comprehensive essay about this topic following the specified tone and requirements.`))

// renderPrompts builds the system and user prompts for one essay.
func renderPrompts(topic string, stance types.Stance, research string, targetWords int, date string) (system, user string, err error) {
	var sb bytes.Buffer
	if err := systemPromptTmpl.Execute(&sb, struct {
		TargetWords int
		Date        string
		Tone        string
	}{targetWords, date, toneFor(stance)}); err != nil {
		return "", "", err
	}

	var ub bytes.Buffer
	if err := userPromptTmpl.Execute(&ub, struct {
		Topic    string
		Research string
	}{topic, truncateChars(research, researchPromptLimit)}); err != nil {
		return "", "", err
	}

	return sb.String(), ub.String(), nil
}

func truncateChars(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
