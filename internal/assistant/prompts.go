package assistant

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Bounds on the entry block sent upstream.
const (
	MaxPromptEntries = 100
	MaxContentRunes  = 2000
)

const smartSearchSystem = `You are an AI assistant for a personal learning journal. Your job is to help users find relevant information from their learning entries and provide insightful answers based on their stored knowledge.

When searching through entries, you should:
1. Find the most relevant entries based on the query
2. Synthesize information across multiple entries if needed
3. Provide clear, concise answers with references to specific entries
4. If no relevant information is found, say so honestly

Format your response in markdown with sections if appropriate.`

const interviewPrepSystem = `You are a senior technical interviewer and career coach with 15+ years of experience at top tech companies. Your job is to generate realistic, challenging interview questions based on the user's learning entries and provide comprehensive answers they can study.

You MUST respond with ONLY a valid JSON object. No markdown, no code blocks, no extra text - just pure JSON.

Generate 6-8 interview questions with exactly this structure:
{
  "questions": [
    {
      "id": 1,
      "question": "The interview question text",
      "difficulty": "easy",
      "category": "Technical",
      "whyAsked": "Brief explanation of why interviewers ask this",
      "sampleAnswer": "A comprehensive sample answer (2-4 paragraphs)",
      "keyPoints": ["Key point 1", "Key point 2", "Key point 3"],
      "followUp": "A potential follow-up question"
    }
  ],
  "studyTips": ["Study tip 1", "Study tip 2", "Study tip 3"],
  "topicsIdentified": ["Topic 1", "Topic 2"]
}

Rules:
- difficulty must be exactly "easy", "medium", or "hard"
- category must be "Technical", "Behavioral", "System Design", or "Problem Solving"
- Generate questions directly relevant to the user's actual learning entries
- Mix difficulty levels (2 easy, 3-4 medium, 2 hard)
- Include both theoretical and practical questions
- Provide detailed, helpful sample answers`

const insightsSystem = `You are a learning analytics expert. Analyze the user's learning patterns and provide actionable insights to help them learn more effectively.

Provide insights on:
1. Learning patterns and trends
2. Topics that need more attention
3. Knowledge gaps based on what's been learned
4. Suggestions for what to learn next
5. Connections between different topics

Be specific and actionable in your recommendations.`

// BuildPrompt renders the system and user messages for r. r is expected to
// have passed Validate.
func BuildPrompt(r *Request) (Prompt, error) {
	entries := FormatEntries(r.Entries)

	switch r.Action {
	case ActionSmartSearch:
		return Prompt{
			System: smartSearchSystem,
			User: fmt.Sprintf("Here are the user's learning entries:\n\n%s\n\nUser's question: %s\n\nPlease search through the entries and provide a helpful answer.",
				entries, r.Query),
		}, nil
	case ActionInterviewPrep:
		focus := "Cover all topics from the learning entries."
		if q := strings.TrimSpace(r.Query); q != "" {
			focus = "Focus specifically on: " + q
		}
		return Prompt{
			System: interviewPrepSystem,
			User: fmt.Sprintf("Based on these learning entries, generate interview questions with detailed answers:\n\n%s\n\n%s\n\nRespond with ONLY the JSON object.",
				entries, focus),
		}, nil
	case ActionInsights:
		return Prompt{
			System: insightsSystem,
			User: fmt.Sprintf("Here are the user's learning entries:\n\n%s\n\nPlease analyze these entries and provide learning insights.",
				entries),
		}, nil
	default:
		return Prompt{}, fmt.Errorf("build prompt: unknown action %q", r.Action)
	}
}

// FormatEntries serializes entries into the block embedded in user prompts.
// At most MaxPromptEntries are included and each body is cut to
// MaxContentRunes.
func FormatEntries(entries []Entry) string {
	if len(entries) == 0 {
		return "No entries available"
	}
	if len(entries) > MaxPromptEntries {
		entries = entries[:MaxPromptEntries]
	}

	blocks := make([]string, 0, len(entries))
	for i, e := range entries {
		blocks = append(blocks, formatEntry(i, e))
	}
	return strings.Join(blocks, "\n")
}

func formatEntry(i int, e Entry) string {
	topic := "No topic"
	if e.Topic != nil && e.Topic.Name != "" {
		topic = e.Topic.Name
	}

	body := "No content"
	switch {
	case e.Content != nil && *e.Content != "":
		body = *e.Content
	case e.Summary != nil && *e.Summary != "":
		body = *e.Summary
	}

	tags := "No tags"
	if len(e.Tags) > 0 {
		names := make([]string, 0, len(e.Tags))
		for _, t := range e.Tags {
			names = append(names, t.Name)
		}
		tags = strings.Join(names, ", ")
	}

	return fmt.Sprintf("\nEntry %d: %q\nTopic: %s\nContent: %s\nTags: %s\nStatus: %s\n---",
		i+1, e.Title, topic, truncate(body, MaxContentRunes), tags, e.Status)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}
