package content_test

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/neuroquiz/internal/content"
	"github.com/vytor/neuroquiz/internal/models"
)

func loadStore(t *testing.T) *content.Store {
	t.Helper()
	store, err := content.Load(content.WithRand(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, err)
	return store
}

func optionIDs(item models.QuizItem) []string {
	ids := make([]string, 0, len(item.Options))
	for _, o := range item.Options {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestLoad_BundledContent(t *testing.T) {
	store := loadStore(t)

	assert.Equal(t, []models.Topic{models.TopicDermatomes, models.TopicMyotomes, models.TopicMajorNerves}, store.AllTopics())
	assert.Len(t, store.ItemsByTopic(models.TopicDermatomes), 12)
	assert.Len(t, store.ItemsByTopic(models.TopicMyotomes), 10)
	assert.Len(t, store.ItemsByTopic(models.TopicMajorNerves), 8)
	assert.Equal(t, 30, store.Len())
}

func TestItemsByTopic_OnlyMatchingAndUnionIsComplete(t *testing.T) {
	store := loadStore(t)

	total := 0
	seen := map[string]bool{}
	for _, topic := range store.AllTopics() {
		for _, it := range store.ItemsByTopic(topic) {
			assert.Equal(t, topic, it.Topic)
			assert.False(t, seen[it.ID], "item %s listed twice", it.ID)
			seen[it.ID] = true
			total++
		}
	}
	assert.Equal(t, store.Len(), total)
}

func TestItemsByTopic_UnknownTopicIsEmpty(t *testing.T) {
	store := loadStore(t)

	items := store.ItemsByTopic("Cranial Nerves")
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestRandomItems_DermatomesScenario(t *testing.T) {
	store := loadStore(t)

	items := store.RandomItems(models.TopicDermatomes, 10)

	require.Len(t, items, 10)
	ids := map[string]bool{}
	for _, it := range items {
		assert.Equal(t, models.TopicDermatomes, it.Topic)
		ids[it.ID] = true
	}
	assert.Len(t, ids, 10, "items must be distinct")
}

func TestRandomItems_FewerAvailableThanRequested(t *testing.T) {
	store := loadStore(t)

	items := store.RandomItems(models.TopicMajorNerves, 50)
	assert.Len(t, items, 8)

	assert.Empty(t, store.RandomItems("Unknown", 5))
	assert.Empty(t, store.RandomItems(models.TopicMyotomes, 0))
	assert.Empty(t, store.RandomItems(models.TopicMyotomes, -3))
}

func TestRandomItems_IsAPermutationOverManyDraws(t *testing.T) {
	store := loadStore(t)

	firsts := map[string]int{}
	for i := 0; i < 600; i++ {
		items := store.RandomItems(models.TopicMyotomes, 1)
		require.Len(t, items, 1)
		firsts[items[0].ID]++
	}
	// Every myotome item should lead at least once with a uniform shuffle.
	assert.Len(t, firsts, 10)
}

func TestShuffleOptions_PermutationWithoutMutation(t *testing.T) {
	store := loadStore(t)
	orig := store.ItemsByTopic(models.TopicDermatomes)[0]
	before := optionIDs(orig)

	shuffled := store.ShuffleOptions(orig)

	assert.Equal(t, before, optionIDs(orig), "source item must not be mutated")
	got := optionIDs(shuffled)
	sort.Strings(got)
	want := append([]string(nil), before...)
	sort.Strings(want)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, orig.CorrectCount())
	assert.Equal(t, 1, shuffled.CorrectCount())
}

func TestNew_RejectsMalformedItems(t *testing.T) {
	good := models.QuizItem{
		ID: "x-1", Topic: models.TopicMyotomes, PromptType: models.PromptMyotome, PromptValue: "C5",
		Options: []models.QuizOption{{ID: "a", IsCorrect: true}, {ID: "b"}},
	}

	twoCorrect := good.Clone()
	twoCorrect.Options[1].IsCorrect = true

	noneCorrect := good.Clone()
	noneCorrect.Options[0].IsCorrect = false

	badTopic := good.Clone()
	badTopic.Topic = "Reflexes"

	badPrompt := good.Clone()
	badPrompt.PromptType = "reflex"

	dupOption := good.Clone()
	dupOption.Options[1].ID = "a"

	tests := []struct {
		name  string
		items []models.QuizItem
		msg   string
	}{
		{"two correct", []models.QuizItem{twoCorrect}, "exactly one correct"},
		{"none correct", []models.QuizItem{noneCorrect}, "exactly one correct"},
		{"unknown topic", []models.QuizItem{badTopic}, "unknown topic"},
		{"unknown prompt", []models.QuizItem{badPrompt}, "unknown prompt type"},
		{"duplicate option", []models.QuizItem{dupOption}, "duplicate option"},
		{"duplicate item", []models.QuizItem{good, good}, "duplicate item"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := content.New(tt.items)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	_, err := content.New([]models.QuizItem{good})
	assert.NoError(t, err)
}

func TestLoadFrom_MissingDataset(t *testing.T) {
	fsys := fstest.MapFS{
		"dermatomes.json": {Data: []byte(`[]`)},
	}
	_, err := content.LoadFrom(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "myotomes.json")
}

func TestLoadFrom_TopicOrderIsFirstSeen(t *testing.T) {
	item := `[{"id":"%s","topic":"%s","promptType":"nerve","promptValue":"v","options":[{"id":"a","isCorrect":true}]}]`
	fsys := fstest.MapFS{
		"dermatomes.json":   {Data: []byte(fmt.Sprintf(item, "n1", "Major Nerves"))},
		"myotomes.json":     {Data: []byte(fmt.Sprintf(item, "m1", "Myotomes"))},
		"major-nerves.json": {Data: []byte(`[]`)},
	}
	store, err := content.LoadFrom(fsys)
	require.NoError(t, err)
	assert.Equal(t, []models.Topic{models.TopicMajorNerves, models.TopicMyotomes}, store.AllTopics())
}

func TestResolveImage(t *testing.T) {
	ref := content.ResolveImage("elbow_2")
	assert.True(t, ref.Bundled)
	assert.Equal(t, "assets/images/elbow_flexion_extens_467c87dc.jpg", ref.Path)

	ref = content.ResolveImage("https://cdn.example.com/c7.png")
	assert.False(t, ref.Bundled)
	assert.Equal(t, "https://cdn.example.com/c7.png", ref.URI)
}

func TestBundledImagesCoverContent(t *testing.T) {
	store := loadStore(t)
	for _, topic := range store.AllTopics() {
		for _, it := range store.ItemsByTopic(topic) {
			for _, o := range it.Options {
				assert.True(t, content.ResolveImage(o.ImageURI).Bundled, "option %s uses unbundled image %q", o.ID, o.ImageURI)
			}
		}
	}
}
