package tagger

import (
	"context"
	"strings"

	"SocialMonitor/internal/domain"
	"SocialMonitor/internal/ports"
)

// Group is one keyword dictionary entry: texts containing any of the
// keywords join the group's cluster.
type Group struct {
	Name     string
	Keywords []string
}

// KeywordTagger is the dictionary-based fallback topic strategy. It sits
// behind the same interface as the embedding engine and is selected by
// configuration, so the pipeline never branches on which one runs.
type KeywordTagger struct {
	groups []Group
}

var _ ports.TopicModeler = (*KeywordTagger)(nil)

// NewKeywordTagger builds a tagger from configured groups; group order
// decides both cluster ids and match priority.
func NewKeywordTagger(groups []Group) *KeywordTagger {
	return &KeywordTagger{groups: groups}
}

// Name identifies the strategy inside the topic registry.
func (t *KeywordTagger) Name() string {
	return "keywords"
}

// Model assigns each text to the first group containing one of its
// keywords; unmatched texts fall to the noise cluster.
func (t *KeywordTagger) Model(_ context.Context, texts []string) (ports.TopicModel, error) {
	labels := make(map[int]string)
	assignments := make([]int, len(texts))

	for i, text := range texts {
		assignments[i] = domain.NoiseClusterID
		for id, group := range t.groups {
			if matches(text, group.Keywords) {
				assignments[i] = id
				labels[id] = group.Name
				break
			}
		}
	}

	return ports.TopicModel{Assignments: assignments, Labels: labels}, nil
}

func matches(text string, keywords []string) bool {
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
