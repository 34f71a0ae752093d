package assistant

import (
	"fmt"
	"strings"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Category string

const (
	CategoryTechnical      Category = "Technical"
	CategoryBehavioral     Category = "Behavioral"
	CategorySystemDesign   Category = "System Design"
	CategoryProblemSolving Category = "Problem Solving"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTechnical, CategoryBehavioral, CategorySystemDesign, CategoryProblemSolving:
		return true
	}
	return false
}

// Question is one generated interview question. WhyAsked carries the
// explanation of why interviewers ask it.
type Question struct {
	ID           int        `json:"id"`
	Question     string     `json:"question"`
	Difficulty   Difficulty `json:"difficulty"`
	Category     Category   `json:"category"`
	WhyAsked     string     `json:"whyAsked"`
	SampleAnswer string     `json:"sampleAnswer"`
	KeyPoints    []string   `json:"keyPoints"`
	FollowUp     string     `json:"followUp"`
}

func (q *Question) validate() error {
	switch {
	case strings.TrimSpace(q.Question) == "":
		return fmt.Errorf("empty question")
	case !q.Difficulty.Valid():
		return fmt.Errorf("difficulty %q", q.Difficulty)
	case !q.Category.Valid():
		return fmt.Errorf("category %q", q.Category)
	case strings.TrimSpace(q.WhyAsked) == "":
		return fmt.Errorf("empty whyAsked")
	case strings.TrimSpace(q.SampleAnswer) == "":
		return fmt.Errorf("empty sampleAnswer")
	case strings.TrimSpace(q.FollowUp) == "":
		return fmt.Errorf("empty followUp")
	}
	return nil
}

// InterviewPrep is the interview-prep response body.
type InterviewPrep struct {
	Questions        []Question `json:"questions"`
	StudyTips        []string   `json:"studyTips"`
	TopicsIdentified []string   `json:"topicsIdentified"`
}

// Validate enforces the closed value sets and required fields. Missing
// lists are replaced with empty ones so they encode as [].
func (p *InterviewPrep) Validate() error {
	if len(p.Questions) == 0 {
		return fmt.Errorf("no questions")
	}
	for i := range p.Questions {
		q := &p.Questions[i]
		if err := q.validate(); err != nil {
			return fmt.Errorf("questions[%d]: %w", i, err)
		}
		if q.KeyPoints == nil {
			q.KeyPoints = []string{}
		}
	}
	if p.StudyTips == nil {
		p.StudyTips = []string{}
	}
	if p.TopicsIdentified == nil {
		p.TopicsIdentified = []string{}
	}
	return nil
}
