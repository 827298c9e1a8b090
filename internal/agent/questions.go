package agent

import "strings"

const maxInterviewQuestions = 10

// ParseQuestions splits free-text model output into discrete interview
// questions: non-empty lines starting with a digit or a dash. If no line
// matches, every non-empty line is kept. Capped at 10.
func ParseQuestions(text string) []string {
	var matched, all []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		all = append(all, line)
		if line[0] == '-' || (line[0] >= '0' && line[0] <= '9') {
			matched = append(matched, line)
		}
	}
	questions := matched
	if len(questions) == 0 {
		questions = all
	}
	if len(questions) > maxInterviewQuestions {
		questions = questions[:maxInterviewQuestions]
	}
	if questions == nil {
		return []string{}
	}
	return questions
}
