package assistant

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/learnjournal/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawPrep = `{
  "questions": [
    {
      "id": 1,
      "question": "What does an unbuffered channel guarantee?",
      "difficulty": "easy",
      "category": "Technical",
      "whyAsked": "Checks understanding of synchronization",
      "sampleAnswer": "A send blocks until a receiver is ready.",
      "keyPoints": ["rendezvous", "happens-before"],
      "followUp": "When would you buffer?"
    },
    {
      "id": 2,
      "question": "Design a rate limiter.",
      "difficulty": "hard",
      "category": "System Design",
      "whyAsked": "Tests trade-offs",
      "sampleAnswer": "Token bucket {per user}.",
      "keyPoints": ["token bucket"],
      "followUp": "Distributed?"
    }
  ],
  "studyTips": ["Write small programs"],
  "topicsIdentified": ["Go"]
}`

func TestParseInterviewPrep_Forms(t *testing.T) {
	want, err := ParseInterviewPrep(rawPrep)
	require.NoError(t, err)
	require.Len(t, want.Questions, 2)
	assert.Equal(t, CategorySystemDesign, want.Questions[1].Category)

	forms := map[string]string{
		"fenced json":   "```json\n" + rawPrep + "\n```",
		"fenced plain":  "```\n" + rawPrep + "\n```",
		"prose wrapper": "Sure! Here are your questions:\n" + rawPrep + "\nGood luck with the interview.",
		"prose + fence": "Here you go:\n```json\n" + rawPrep + "\n```\nAnything else?",
	}

	for name, raw := range forms {
		t.Run(name, func(t *testing.T) {
			got, err := ParseInterviewPrep(raw)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("parsed payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseInterviewPrep_Failures(t *testing.T) {
	tests := map[string]string{
		"garbage":         "I cannot help with that.",
		"truncated":       `{"questions": [{"id": 1, "question": "x"`,
		"braces not json": "use {curly} braces",
		"bad difficulty":  `{"questions":[{"id":1,"question":"q","difficulty":"extreme","category":"Technical"}]}`,
		"bad category":    `{"questions":[{"id":1,"question":"q","difficulty":"easy","category":"Trivia"}]}`,
		"no questions":    `{"questions":[],"studyTips":[]}`,
		"string id":       `{"questions":[{"id":"1","question":"q","difficulty":"easy","category":"Technical"}]}`,
		"no explanation":  `{"questions":[{"id":1,"question":"q","difficulty":"easy","category":"Technical","sampleAnswer":"a","followUp":"f"}]}`,
		"no sample":       `{"questions":[{"id":1,"question":"q","difficulty":"easy","category":"Technical","whyAsked":"w","followUp":"f"}]}`,
		"no follow-up":    `{"questions":[{"id":1,"question":"q","difficulty":"easy","category":"Technical","whyAsked":"w","sampleAnswer":"a"}]}`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseInterviewPrep(raw)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, common.ErrParse), "got %v", err)
		})
	}
}

func TestParseInterviewPrep_Empty(t *testing.T) {
	_, err := ParseInterviewPrep("  \n")
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestParseInterviewPrep_FillsEmptyLists(t *testing.T) {
	got, err := ParseInterviewPrep(`{"questions":[{"id":1,"question":"q","difficulty":"medium","category":"Behavioral",` +
		`"whyAsked":"w","sampleAnswer":"a","followUp":"f"}]}`)
	require.NoError(t, err)
	assert.NotNil(t, got.StudyTips)
	assert.NotNil(t, got.TopicsIdentified)
	assert.NotNil(t, got.Questions[0].KeyPoints)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"keyPoints":[]`)
	assert.NotContains(t, string(b), "null")
}
