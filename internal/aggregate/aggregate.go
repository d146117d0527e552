package aggregate

import (
	"fmt"
	"sort"
	"time"

	"SocialMonitor/internal/domain"
)

// Enriched pairs a raw tweet with its enrichment outcome for the run.
type Enriched struct {
	Tweet     domain.Tweet
	Sentiment domain.Sentiment
	ClusterID int
}

// BuildSummaries reduces a run's enriched tweets into daily rollup rows
// grouped by (topic, cluster id). Pure and deterministic: the same input
// always yields the same rows in the same order.
func BuildSummaries(items []Enriched, labels map[int]string, date time.Time) []domain.ClusterSummary {
	type key struct {
		topic     string
		clusterID int
	}

	groups := map[key][]Enriched{}
	for _, item := range items {
		k := key{topic: item.Tweet.Topic, clusterID: item.ClusterID}
		groups[k] = append(groups[k], item)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].topic != keys[b].topic {
			return keys[a].topic < keys[b].topic
		}
		return keys[a].clusterID < keys[b].clusterID
	})

	day := date.UTC().Truncate(24 * time.Hour)
	summaries := make([]domain.ClusterSummary, 0, len(keys))
	for _, k := range keys {
		group := groups[k]

		var likes, retweets, positive, negative int
		var scoreSum float64
		var scored int
		for _, item := range group {
			likes += item.Tweet.Likes
			retweets += item.Tweet.Retweets
			switch item.Sentiment.Label {
			case domain.SentimentPositive:
				positive++
			case domain.SentimentNegative:
				negative++
			}
			if item.Sentiment.Score != nil {
				scoreSum += *item.Sentiment.Score
				scored++
			}
		}

		var avg float64
		if scored > 0 {
			avg = scoreSum / float64(scored)
		}

		summaries = append(summaries, domain.ClusterSummary{
			Date:              day,
			Topic:             k.topic,
			ClusterID:         k.clusterID,
			ClusterLabel:      labelFor(k.clusterID, labels),
			TweetCount:        len(group),
			TotalLikes:        likes,
			TotalRetweets:     retweets,
			PositiveCount:     positive,
			NegativeCount:     negative,
			AvgSentimentScore: avg,
		})
	}

	return summaries
}

func labelFor(clusterID int, labels map[int]string) string {
	if clusterID == domain.NoiseClusterID {
		return domain.NoiseClusterLabel
	}
	if label, ok := labels[clusterID]; ok && label != "" {
		return label
	}
	return fmt.Sprintf("Cluster %d", clusterID)
}
