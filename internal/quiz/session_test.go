package quiz

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/neuroquiz/internal/models"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// testItems builds n items whose correct option is always "<id>-b".
func testItems(n int) []models.QuizItem {
	items := make([]models.QuizItem, n)
	for i := range items {
		id := fmt.Sprintf("derm-%02d", i+1)
		items[i] = models.QuizItem{
			ID:          id,
			Topic:       models.TopicDermatomes,
			PromptType:  models.PromptNerveRoot,
			PromptValue: fmt.Sprintf("C%d", i+5),
			Options: []models.QuizOption{
				{ID: id + "-a", Label: "Lateral arm"},
				{ID: id + "-b", Label: "Thumb", IsCorrect: true},
				{ID: id + "-c", Label: "Middle finger"},
				{ID: id + "-d", Label: "Little finger"},
			},
		}
	}
	return items
}

func TestNewSession_StartsAtFirstQuestion(t *testing.T) {
	s := NewSession("s1", "Dermatomes", testItems(3), t0, 30*time.Second)

	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, 0, s.Index())
	assert.False(t, s.Answered())

	snap := s.Snapshot()
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, 30, snap.TimeLeft)
	assert.Equal(t, "Nerve Root: C5", snap.Prompt)
	assert.InDelta(t, 33.33, snap.Progress, 0.01)
	require.NotNil(t, snap.Current)
	assert.Equal(t, "derm-01", snap.Current.ID)
	assert.Nil(t, snap.LastAnswer)
}

func TestNewSession_EmptyIsComplete(t *testing.T) {
	s := NewSession("s1", "Reflexes", nil, t0, 30*time.Second)

	assert.Equal(t, StateComplete, s.State())
	snap := s.Snapshot()
	assert.Zero(t, snap.Total)
	assert.Zero(t, snap.Progress)
	assert.Nil(t, snap.Current)

	_, err := s.Answer("x", t0)
	assert.ErrorIs(t, err, ErrSessionComplete)
}

func TestSession_ThreeQuestionScenario(t *testing.T) {
	s := NewSession("s1", "Dermatomes", testItems(3), t0, 30*time.Second)

	// Correct after 4.4s.
	ans, err := s.Answer("derm-01-b", t0.Add(4400*time.Millisecond))
	require.NoError(t, err)
	assert.True(t, ans.IsCorrect)
	assert.Equal(t, 4, ans.TimeSpent)
	done, err := s.Advance(t0.Add(7 * time.Second))
	require.NoError(t, err)
	assert.False(t, done)

	// Let the second question run out.
	q2 := t0.Add(7 * time.Second)
	var timedOut models.QuizAnswer
	for i := 1; i <= 30; i++ {
		a, fired := s.Tick(q2.Add(time.Duration(i) * time.Second))
		if i < 30 {
			require.False(t, fired, "tick %d", i)
			continue
		}
		require.True(t, fired)
		timedOut = a
	}
	assert.True(t, timedOut.TimedOut)
	assert.False(t, timedOut.IsCorrect)
	assert.Equal(t, "derm-02-a", timedOut.SelectedOptionID)
	assert.Equal(t, 30, timedOut.TimeSpent)
	assert.Zero(t, s.Snapshot().TimeLeft)

	done, err = s.Advance(q2.Add(33 * time.Second))
	require.NoError(t, err)
	assert.False(t, done)

	// Incorrect on the last.
	ans, err = s.Answer("derm-03-d", q2.Add(35*time.Second))
	require.NoError(t, err)
	assert.False(t, ans.IsCorrect)

	done, err = s.Advance(q2.Add(38 * time.Second))
	require.NoError(t, err)
	assert.True(t, done)

	data := s.Data()
	assert.True(t, data.IsComplete)
	assert.Equal(t, 3, data.CurrentIndex)
	assert.Equal(t, 1, data.Score)
	require.Len(t, data.Answers, 3)

	correct := 0
	for _, a := range data.Answers {
		if a.IsCorrect {
			correct++
		}
	}
	assert.Equal(t, correct, data.Score)

	snap := s.Snapshot()
	assert.Equal(t, StateComplete, snap.State)
	assert.Equal(t, float64(100), snap.Progress)
}

func TestSession_AtMostOneAnswerPerQuestion(t *testing.T) {
	s := NewSession("s1", "Dermatomes", testItems(2), t0, 30*time.Second)

	_, err := s.Answer("derm-01-a", t0.Add(time.Second))
	require.NoError(t, err)

	_, err = s.Answer("derm-01-b", t0.Add(2*time.Second))
	assert.ErrorIs(t, err, ErrAlreadyAnswered)

	_, err = s.Timeout(t0.Add(3 * time.Second))
	assert.ErrorIs(t, err, ErrAlreadyAnswered)

	data := s.Data()
	assert.Len(t, data.Answers, 1)
	assert.Zero(t, data.Score)
}

func TestSession_UnknownOptionDoesNotConsumeQuestion(t *testing.T) {
	s := NewSession("s1", "Dermatomes", testItems(2), t0, 30*time.Second)

	_, err := s.Answer("derm-02-b", t0)
	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.False(t, s.Answered())

	ans, err := s.Answer("derm-01-b", t0)
	require.NoError(t, err)
	assert.True(t, ans.IsCorrect)
}

func TestSession_AdvanceRequiresAnswer(t *testing.T) {
	s := NewSession("s1", "Dermatomes", testItems(2), t0, 30*time.Second)

	_, err := s.Advance(t0)
	assert.ErrorIs(t, err, ErrNotAnswered)
	assert.Equal(t, 0, s.Index())
}

func TestSession_TickFreezesCountdownAfterAnswer(t *testing.T) {
	s := NewSession("s1", "Dermatomes", testItems(2), t0, 30*time.Second)

	s.Tick(t0.Add(time.Second))
	_, err := s.Answer("derm-01-c", t0.Add(1500*time.Millisecond))
	require.NoError(t, err)
	s.Tick(t0.Add(2 * time.Second))
	s.Tick(t0.Add(3 * time.Second))

	snap := s.Snapshot()
	assert.Equal(t, 29, snap.TimeLeft)
	assert.Equal(t, 3, snap.Elapsed)
	assert.True(t, snap.ShowFeedback)
	assert.Equal(t, "derm-01-c", snap.SelectedOptionID)
	require.NotNil(t, snap.LastAnswer)
	assert.False(t, snap.LastAnswer.IsCorrect)

	_, err = s.Advance(t0.Add(4 * time.Second))
	require.NoError(t, err)
	snap = s.Snapshot()
	assert.Equal(t, 30, snap.TimeLeft)
	assert.False(t, snap.ShowFeedback)
	assert.Empty(t, snap.SelectedOptionID)
}

func TestSession_TimeoutWithoutIncorrectOption(t *testing.T) {
	item := models.QuizItem{
		ID: "solo", Topic: models.TopicMajorNerves, PromptType: models.PromptNerve, PromptValue: "Radial",
		Options: []models.QuizOption{{ID: "solo-a", IsCorrect: true}},
	}
	s := NewSession("s1", "Major Nerves", []models.QuizItem{item}, t0, time.Second)

	ans, fired := s.Tick(t0.Add(time.Second))
	require.True(t, fired)
	assert.Empty(t, ans.SelectedOptionID)
	assert.False(t, ans.IsCorrect)
	assert.Zero(t, s.Data().Score)
}

func TestSession_NegativeTimeSpentClamped(t *testing.T) {
	s := NewSession("s1", "Dermatomes", testItems(1), t0, 30*time.Second)

	ans, err := s.Answer("derm-01-b", t0.Add(-5*time.Second))
	require.NoError(t, err)
	assert.Zero(t, ans.TimeSpent)
}

func TestSession_DataIsACopy(t *testing.T) {
	s := NewSession("s1", "Dermatomes", testItems(1), t0, 30*time.Second)

	data := s.Data()
	data.Items[0].Options[0].Label = "changed"
	data.Score = 99

	fresh := s.Data()
	assert.Equal(t, "Lateral arm", fresh.Items[0].Options[0].Label)
	assert.Zero(t, fresh.Score)
}

func TestSession_SeenResetsOnEachQuestion(t *testing.T) {
	s := NewSession("s1", "Dermatomes", testItems(2), t0, 2*time.Second)
	assert.False(t, s.Seen())
	assert.False(t, s.Expiring())

	s.MarkSeen()
	s.Tick(t0.Add(time.Second))
	assert.True(t, s.Expiring())

	_, err := s.Answer("derm-01-b", t0.Add(time.Second))
	require.NoError(t, err)
	assert.False(t, s.Expiring(), "an answered question cannot expire")

	complete, err := s.Advance(t0.Add(2 * time.Second))
	require.NoError(t, err)
	require.False(t, complete)
	assert.False(t, s.Seen())
	assert.False(t, s.Expiring())
}
