package models

import "time"

type Topic string

const (
	TopicDermatomes  Topic = "Dermatomes"
	TopicMyotomes    Topic = "Myotomes"
	TopicMajorNerves Topic = "Major Nerves"
)

// Valid reports whether t is one of the bundled topics.
func (t Topic) Valid() bool {
	switch t {
	case TopicDermatomes, TopicMyotomes, TopicMajorNerves:
		return true
	}
	return false
}

// TopicSummary is a topic with the number of items available for it.
type TopicSummary struct {
	Topic     Topic `json:"topic"`
	ItemCount int   `json:"itemCount"`
}

type PromptType string

const (
	PromptNerveRoot PromptType = "nerveRoot"
	PromptDermatome PromptType = "dermatome"
	PromptMyotome   PromptType = "myotome"
	PromptNerve     PromptType = "nerve"
)

func (p PromptType) Valid() bool {
	switch p {
	case PromptNerveRoot, PromptDermatome, PromptMyotome, PromptNerve:
		return true
	}
	return false
}

type QuizOption struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	ImageURI  string `json:"imageUri"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuizItem struct {
	ID          string       `json:"id"`
	Topic       Topic        `json:"topic"`
	PromptType  PromptType   `json:"promptType"`
	PromptValue string       `json:"promptValue"`
	Options     []QuizOption `json:"options"`
	Explanation string       `json:"explanation"`
	Tags        []string     `json:"tags"`
}

// PromptText renders the question line shown above the options.
func (i QuizItem) PromptText() string {
	switch i.PromptType {
	case PromptNerveRoot:
		return "Nerve Root: " + i.PromptValue
	case PromptDermatome:
		return "Dermatome: " + i.PromptValue
	case PromptMyotome:
		return "Myotome: " + i.PromptValue
	default:
		return i.PromptValue
	}
}

// Clone returns a copy that shares no slices with i.
func (i QuizItem) Clone() QuizItem {
	out := i
	out.Options = append([]QuizOption(nil), i.Options...)
	out.Tags = append([]string(nil), i.Tags...)
	return out
}

// Option looks up an option by id.
func (i QuizItem) Option(id string) (QuizOption, bool) {
	for _, o := range i.Options {
		if o.ID == id {
			return o, true
		}
	}
	return QuizOption{}, false
}

// CorrectCount returns how many options are flagged correct.
func (i QuizItem) CorrectCount() int {
	n := 0
	for _, o := range i.Options {
		if o.IsCorrect {
			n++
		}
	}
	return n
}

type QuizAnswer struct {
	ItemID           string `json:"itemId"`
	SelectedOptionID string `json:"selectedOptionId"`
	IsCorrect        bool   `json:"isCorrect"`
	TimeSpent        int    `json:"timeSpent"`
	TimedOut         bool   `json:"timedOut,omitempty"`
}

type QuizSession struct {
	ID                string       `json:"id"`
	Topic             string       `json:"topic"`
	Items             []QuizItem   `json:"items"`
	CurrentIndex      int          `json:"currentIndex"`
	Score             int          `json:"score"`
	StartTime         UnixMilli    `json:"startTime"`
	QuestionStartTime UnixMilli    `json:"questionStartTime"`
	Answers           []QuizAnswer `json:"answers"`
	IsComplete        bool         `json:"isComplete"`
}

// Clone deep-copies the session so a sealed copy can leave the event loop.
func (s QuizSession) Clone() QuizSession {
	out := s
	out.Items = make([]QuizItem, len(s.Items))
	for i, it := range s.Items {
		out.Items[i] = it.Clone()
	}
	out.Answers = append([]QuizAnswer(nil), s.Answers...)
	return out
}

// AnswerFor returns the answer recorded for itemID, if any.
func (s QuizSession) AnswerFor(itemID string) (QuizAnswer, bool) {
	for _, a := range s.Answers {
		if a.ItemID == itemID {
			return a, true
		}
	}
	return QuizAnswer{}, false
}

type QuizResults struct {
	SessionID      string     `json:"sessionId,omitempty"`
	Topic          string     `json:"topic"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"totalQuestions"`
	Accuracy       int        `json:"accuracy"`
	TotalTime      int        `json:"totalTime"`
	Streak         int        `json:"streak"`
	MissedItems    []QuizItem `json:"missedItems"`
	Performance    string     `json:"performance"`
}

// UnixMilli is a timestamp carried on the wire as milliseconds since epoch.
type UnixMilli int64

func NewUnixMilli(t time.Time) UnixMilli { return UnixMilli(t.UnixMilli()) }

func (u UnixMilli) Time() time.Time { return time.UnixMilli(int64(u)) }
