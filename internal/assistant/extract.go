package assistant

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/learnjournal/internal/common"
)

var (
	jsonFence = regexp.MustCompile("```json\\s*")
	anyFence  = regexp.MustCompile("```\\s*")
)

// stripCodeFences removes every markdown fence marker, keeping the text
// between and around them.
func stripCodeFences(s string) string {
	if strings.Contains(s, "```json") {
		s = jsonFence.ReplaceAllString(s, "")
	}
	if strings.Contains(s, "```") {
		s = anyFence.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}

// outerObject returns the text from the first '{' to the last '}'.
func outerObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// ParseInterviewPrep recovers an InterviewPrep from raw model text.
//
// Fence markers are stripped, then the whole text is parsed. If that fails
// the span from the first '{' to the last '}' is parsed instead. Anything
// still unparseable or outside the schema yields an error wrapping
// common.ErrParse; partial results are never returned.
func ParseInterviewPrep(raw string) (*InterviewPrep, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrNoContent
	}

	text := stripCodeFences(raw)

	out, err := decodeInterviewPrep(text)
	if err == nil {
		return out, nil
	}

	if obj, ok := outerObject(text); ok && obj != text {
		out, err2 := decodeInterviewPrep(obj)
		if err2 == nil {
			return out, nil
		}
		err = err2
	}

	return nil, fmt.Errorf("%w: %v", common.ErrParse, err)
}

func decodeInterviewPrep(s string) (*InterviewPrep, error) {
	var p InterviewPrep
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
