package quiz

import (
	"math"
	"sort"
	"time"

	"github.com/thiagorragazzo/quiz-unisa-avc/internal/models"
)

// WeakTagThreshold is the accuracy below which a tag is surfaced as a study
// recommendation.
const WeakTagThreshold = 0.70

// ComputeResult folds the session state into the result summary. It is a pure
// read: calling it repeatedly, before or after finish, always reflects the
// state at the time of the call. Before finish the wall clock stands in for
// the end timestamp so the live results preview stays meaningful.
func (s *Session) ComputeResult() models.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	correct, answered := s.score()

	accuracy := 0
	if answered > 0 {
		accuracy = roundPct(correct, answered)
	}

	end := s.endedAt
	if !s.finished {
		end = s.now()
	}

	byTag, tagOrder := s.tagStats()

	return models.Result{
		CorrectCount:     correct,
		TotalAnswered:    answered,
		TotalQuestions:   len(s.order),
		AccuracyPct:      accuracy,
		BrierScore:       s.brierScore(),
		AvgConfidencePct: s.avgConfidence(),
		TotalTimeSec:     int64(end.Sub(s.startedAt).Seconds()),
		ByTag:            byTag,
		WeakTags:         weakTags(byTag, tagOrder),
		Review:           s.review(),
	}
}

// score counts correct answers over answered questions only; unanswered
// questions are excluded, not treated as wrong. Callers hold s.mu.
func (s *Session) score() (correct, answered int) {
	for _, q := range s.order {
		chosen, ok := s.answers[q.ID]
		if !ok {
			continue
		}
		answered++
		if chosen == q.CorrectOptionID {
			correct++
		}
	}
	return correct, answered
}

// brierScore is the mean squared gap between stated confidence (as a
// probability) and the binary outcome, over questions that were both answered
// and confidence-rated. 0 is perfect calibration, 1 is confidently wrong.
func (s *Session) brierScore() float64 {
	var sum float64
	var n int
	for _, q := range s.order {
		chosen, ok := s.answers[q.ID]
		if !ok {
			continue
		}
		conf, ok := s.confidence[q.ID]
		if !ok {
			continue
		}
		outcome := 0.0
		if chosen == q.CorrectOptionID {
			outcome = 1.0
		}
		diff := float64(conf)/100 - outcome
		sum += diff * diff
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*1000) / 1000
}

// avgConfidence averages every recorded confidence value, answered or not.
func (s *Session) avgConfidence() int {
	if len(s.confidence) == 0 {
		return 0
	}
	sum := 0
	for _, c := range s.confidence {
		sum += c
	}
	return int(math.Round(float64(sum) / float64(len(s.confidence))))
}

// tagStats aggregates correct/total/time per tag across answered questions.
// A question carrying N tags contributes to all N buckets. tagOrder preserves
// first-encounter order for stable weak-tag ties.
func (s *Session) tagStats() (map[string]models.TagStats, []string) {
	byTag := make(map[string]models.TagStats)
	var order []string

	for _, q := range s.order {
		chosen, ok := s.answers[q.ID]
		if !ok {
			continue
		}
		for _, tag := range q.Tags {
			stats, seen := byTag[tag]
			if !seen {
				order = append(order, tag)
			}
			stats.Total++
			if chosen == q.CorrectOptionID {
				stats.Correct++
			}
			stats.TimeMs += s.elapsedMs[q.ID]
			byTag[tag] = stats
		}
	}
	return byTag, order
}

// weakTags picks tags under the recommendation threshold, weakest first.
// Ties keep encounter order (stable sort).
func weakTags(byTag map[string]models.TagStats, tagOrder []string) []models.WeakTag {
	weak := make([]models.WeakTag, 0)
	for _, tag := range tagOrder {
		stats := byTag[tag]
		if float64(stats.Correct)/float64(stats.Total) < WeakTagThreshold {
			weak = append(weak, models.WeakTag{
				Tag:         tag,
				AccuracyPct: roundPct(stats.Correct, stats.Total),
			})
		}
	}
	sort.SliceStable(weak, func(i, j int) bool {
		return weak[i].AccuracyPct < weak[j].AccuracyPct
	})
	return weak
}

// review lists every question in presentation order with the user's pick and
// the answer key, for the results screen.
func (s *Session) review() []models.QuestionReview {
	review := make([]models.QuestionReview, 0, len(s.order))
	for _, q := range s.order {
		chosen, answered := s.answers[q.ID]
		_, marked := s.marked[q.ID]
		review = append(review, models.QuestionReview{
			QuestionID:       q.ID,
			Statement:        q.Statement,
			Tags:             q.Tags,
			Options:          q.Options,
			SelectedOptionID: chosen,
			CorrectOptionID:  q.CorrectOptionID,
			Answered:         answered,
			Correct:          answered && chosen == q.CorrectOptionID,
			ConfidencePct:    s.confidence[q.ID],
			Marked:           marked,
			TimeMs:           s.elapsedMs[q.ID],
			Explanation:      q.Explanation,
		})
	}
	return review
}

// Export builds the downloadable snapshot of a finished session.
func (s *Session) Export(at time.Time) (models.ExportSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.finished {
		return models.ExportSnapshot{}, ErrNotFinished
	}

	correct, answered := s.score()
	pct := 0
	if answered > 0 {
		pct = roundPct(correct, answered)
	}

	answers := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	confidence := make(map[string]int, len(s.confidence))
	for k, v := range s.confidence {
		confidence[k] = v
	}
	byTag, _ := s.tagStats()

	return models.ExportSnapshot{
		Date:         at.UTC().Format(time.RFC3339),
		Score:        models.ExportScore{Correct: correct, Total: answered, Percentage: pct},
		BrierScore:   s.brierScore(),
		Mode:         string(s.Mode),
		TimeSpentSec: int64(s.endedAt.Sub(s.startedAt).Seconds()),
		Answers:      answers,
		Confidence:   confidence,
		ByTag:        byTag,
	}, nil
}

func roundPct(part, total int) int {
	return int(math.Round(100 * float64(part) / float64(total)))
}
