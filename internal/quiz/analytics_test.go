package quiz

import (
	"testing"
	"time"

	"github.com/thiagorragazzo/quiz-unisa-avc/internal/models"
)

func taggedQuestion(id, correct string, tags ...string) models.Question {
	return models.Question{
		ID:        id,
		Statement: "Statement " + id,
		Tags:      tags,
		Options: []models.Option{
			{ID: "a", Text: "First"},
			{ID: "b", Text: "Second"},
			{ID: "c", Text: "Third"},
		},
		CorrectOptionID: correct,
		SchemaVersion:   "V3",
	}
}

func TestComputeResult_EmptySession(t *testing.T) {
	s := mustStart(t, 5, ModeExam)
	s.Finish()

	res := s.ComputeResult()
	if res.TotalAnswered != 0 {
		t.Errorf("TotalAnswered = %d, want 0", res.TotalAnswered)
	}
	if res.AccuracyPct != 0 {
		t.Errorf("AccuracyPct = %d, want 0 for no answers", res.AccuracyPct)
	}
	if res.BrierScore != 0 {
		t.Errorf("BrierScore = %f, want 0 for no scored questions", res.BrierScore)
	}
	if res.AvgConfidencePct != 0 {
		t.Errorf("AvgConfidencePct = %d, want 0", res.AvgConfidencePct)
	}
	if len(res.WeakTags) != 0 {
		t.Errorf("WeakTags = %v, want empty", res.WeakTags)
	}
}

func TestComputeResult_ScoreInvariant(t *testing.T) {
	s := mustStart(t, 10, ModeStudy)

	// Answer 6 of 10, mixing correct and wrong picks.
	picks := []string{"a", "b", "a", "c", "a", "b"}
	for _, p := range picks {
		s.SelectOption(p)
		s.Navigate(1)
	}
	s.Finish()

	res := s.ComputeResult()
	if res.CorrectCount < 0 || res.CorrectCount > res.TotalAnswered {
		t.Errorf("Invariant violated: 0 <= %d <= %d", res.CorrectCount, res.TotalAnswered)
	}
	if res.TotalAnswered > res.TotalQuestions {
		t.Errorf("Invariant violated: answered %d > total %d", res.TotalAnswered, res.TotalQuestions)
	}
	if res.TotalAnswered != 6 {
		t.Errorf("TotalAnswered = %d, want 6", res.TotalAnswered)
	}
	if res.CorrectCount != 3 {
		t.Errorf("CorrectCount = %d, want 3", res.CorrectCount)
	}
	if res.AccuracyPct != 50 {
		t.Errorf("AccuracyPct = %d, want 50", res.AccuracyPct)
	}
}

func TestComputeResult_BrierBounds(t *testing.T) {
	s := mustStart(t, 8, ModeStudy)
	confidences := []int{0, 10, 35, 50, 65, 80, 95, 100}
	picks := []string{"a", "b", "a", "b", "a", "b", "a", "b"}

	for i := range picks {
		s.SetConfidence(confidences[i])
		s.SelectOption(picks[i])
		s.Navigate(1)
	}
	s.Finish()

	res := s.ComputeResult()
	if res.BrierScore < 0 || res.BrierScore > 1 {
		t.Errorf("Brier score %f out of [0,1]", res.BrierScore)
	}
}

func TestComputeResult_AllCorrectFullConfidence(t *testing.T) {
	// 20 questions, all answered correctly with confidence 100.
	s := mustStart(t, 20, ModeStudy)
	for i := 0; i < 20; i++ {
		s.SetConfidence(100)
		s.SelectOption("a")
		s.Navigate(1)
	}
	s.Finish()

	res := s.ComputeResult()
	if res.AccuracyPct != 100 {
		t.Errorf("AccuracyPct = %d, want 100", res.AccuracyPct)
	}
	if res.BrierScore != 0 {
		t.Errorf("BrierScore = %.3f, want 0.000", res.BrierScore)
	}
	if res.AvgConfidencePct != 100 {
		t.Errorf("AvgConfidencePct = %d, want 100", res.AvgConfidencePct)
	}
	if len(res.WeakTags) != 0 {
		t.Errorf("WeakTags = %v, want none", res.WeakTags)
	}
}

func TestComputeResult_SingleWrongConfidence80(t *testing.T) {
	s := mustStart(t, 1, ModeStudy)
	s.SetConfidence(80)
	s.SelectOption("b")
	s.Finish()

	res := s.ComputeResult()
	if res.BrierScore != 0.640 {
		t.Errorf("BrierScore = %.3f, want 0.640 ((0.8-0)^2)", res.BrierScore)
	}
}

func TestComputeResult_TagAggregation(t *testing.T) {
	qs := []models.Question{
		taggedQuestion("g1", "a", "Gestação"),
		taggedQuestion("g2", "a", "Gestação"),
		taggedQuestion("p1", "a", "Parto"),
	}
	s, err := StartSession(qs, ModeStudy)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	s.SelectOption("a") // g1 correct
	s.Navigate(1)
	s.SelectOption("b") // g2 wrong
	s.Navigate(1)
	// p1 unanswered: must not appear in byTag at all
	s.Finish()

	res := s.ComputeResult()

	gest, ok := res.ByTag["Gestação"]
	if !ok {
		t.Fatal("Expected Gestação bucket")
	}
	if gest.Correct != 1 || gest.Total != 2 {
		t.Errorf("Gestação = {correct:%d, total:%d}, want {1, 2}", gest.Correct, gest.Total)
	}
	if _, ok := res.ByTag["Parto"]; ok {
		t.Error("Unanswered question must not contribute a tag bucket")
	}

	if len(res.WeakTags) != 1 || res.WeakTags[0].Tag != "Gestação" {
		t.Fatalf("WeakTags = %v, want [Gestação]", res.WeakTags)
	}
	if res.WeakTags[0].AccuracyPct != 50 {
		t.Errorf("Weak tag accuracy = %d, want 50", res.WeakTags[0].AccuracyPct)
	}
}

func TestComputeResult_MultiTagQuestionCountsInEveryBucket(t *testing.T) {
	qs := []models.Question{
		taggedQuestion("q1", "a", "Gestação", "Emergência"),
	}
	s, _ := StartSession(qs, ModeStudy)
	s.SelectOption("a")
	s.Finish()

	res := s.ComputeResult()
	for _, tag := range []string{"Gestação", "Emergência"} {
		stats, ok := res.ByTag[tag]
		if !ok || stats.Total != 1 || stats.Correct != 1 {
			t.Errorf("Tag %s = %+v, want {correct:1, total:1}", tag, stats)
		}
	}
}

func TestComputeResult_WeakTagsSortedAscendingStable(t *testing.T) {
	qs := []models.Question{
		// "Alto": 2/3 ≈ 67%, "Baixo": 0/2 = 0%, "Meio": 1/2 = 50%,
		// "Empate": 1/2 = 50% (same as Meio, encountered later).
		taggedQuestion("a1", "a", "Alto"),
		taggedQuestion("a2", "a", "Alto"),
		taggedQuestion("a3", "a", "Alto"),
		taggedQuestion("b1", "a", "Baixo"),
		taggedQuestion("b2", "a", "Baixo"),
		taggedQuestion("m1", "a", "Meio"),
		taggedQuestion("m2", "a", "Meio"),
		taggedQuestion("e1", "a", "Empate"),
		taggedQuestion("e2", "a", "Empate"),
	}
	s, _ := StartSession(qs, ModeStudy)

	picks := []string{"a", "a", "b", "b", "b", "a", "b", "a", "b"}
	for _, p := range picks {
		s.SelectOption(p)
		s.Navigate(1)
	}
	s.Finish()

	res := s.ComputeResult()
	got := make([]string, 0, len(res.WeakTags))
	for _, wt := range res.WeakTags {
		got = append(got, wt.Tag)
	}

	want := []string{"Baixo", "Meio", "Empate", "Alto"}
	if len(got) != len(want) {
		t.Fatalf("WeakTags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("WeakTags order = %v, want %v", got, want)
		}
	}
}

func TestComputeResult_AvgConfidenceIncludesUnanswered(t *testing.T) {
	s := mustStart(t, 3, ModeStudy)

	// Rate confidence on q1 without answering it, then answer q2 rated 80.
	s.SetConfidence(20)
	s.Navigate(1)
	s.SetConfidence(80)
	s.SelectOption("a")
	s.Finish()

	res := s.ComputeResult()
	if res.AvgConfidencePct != 50 {
		t.Errorf("AvgConfidencePct = %d, want 50 (mean of 20 and 80)", res.AvgConfidencePct)
	}
	// The unanswered-but-rated question must not enter the Brier mean.
	if res.BrierScore != 0.040 {
		t.Errorf("BrierScore = %.3f, want 0.040 ((0.8-1)^2 over one question)", res.BrierScore)
	}
}

func TestComputeResult_TotalTime(t *testing.T) {
	clock := newFakeClock()
	s := mustStart(t, 2, ModeStudy, WithClock(clock.Now))

	clock.Advance(95 * time.Second)
	s.Finish()

	res := s.ComputeResult()
	if res.TotalTimeSec != 95 {
		t.Errorf("TotalTimeSec = %d, want 95", res.TotalTimeSec)
	}
}

func TestRealtimeScore_AvailableMidSession(t *testing.T) {
	s := mustStart(t, 4, ModeStudy)

	if got := s.RealtimeScore(); got != 0 {
		t.Errorf("Score before any answer = %d, want 0", got)
	}

	s.SelectOption("a")
	s.Navigate(1)
	s.SelectOption("b")

	if got := s.RealtimeScore(); got != 50 {
		t.Errorf("Realtime score = %d, want 50 (1 of 2 answered correct)", got)
	}
	if s.Finished() {
		t.Error("Realtime score must not require a finished session")
	}
}

func TestComputeResult_ReviewCoversEveryQuestion(t *testing.T) {
	clock := newFakeClock()
	s := mustStart(t, 3, ModeStudy, WithClock(clock.Now))

	s.SetConfidence(70)
	s.SelectOption("a")
	s.ToggleMark()
	clock.Advance(5 * time.Second)
	s.Navigate(1)
	s.SelectOption("c")
	s.Finish()

	res := s.ComputeResult()
	if len(res.Review) != 3 {
		t.Fatalf("Review has %d entries, want 3", len(res.Review))
	}

	first := res.Review[0]
	if !first.Answered || !first.Correct || !first.Marked {
		t.Errorf("First review entry = %+v, want answered, correct, marked", first)
	}
	if first.ConfidencePct != 70 {
		t.Errorf("First review confidence = %d, want 70", first.ConfidencePct)
	}
	if first.TimeMs != 5000 {
		t.Errorf("First review time = %dms, want 5000", first.TimeMs)
	}

	second := res.Review[1]
	if !second.Answered || second.Correct {
		t.Errorf("Second review entry = %+v, want answered and incorrect", second)
	}

	third := res.Review[2]
	if third.Answered || third.Correct {
		t.Errorf("Third review entry = %+v, want unanswered", third)
	}
	if third.CorrectOptionID != "a" {
		t.Errorf("Review must expose the answer key, got %q", third.CorrectOptionID)
	}
}

func TestExport_RequiresFinish(t *testing.T) {
	s := mustStart(t, 2, ModeExam)

	if _, err := s.Export(time.Now()); err != ErrNotFinished {
		t.Errorf("Export before finish: got %v, want ErrNotFinished", err)
	}
}

func TestExport_Snapshot(t *testing.T) {
	clock := newFakeClock()
	s := mustStart(t, 2, ModeExam, WithClock(clock.Now))

	s.SetConfidence(80)
	s.SelectOption("a")
	clock.Advance(42 * time.Second)
	s.Finish()

	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	snap, err := s.Export(at)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if snap.Date != "2025-06-01T10:00:00Z" {
		t.Errorf("Date = %q, want RFC3339 timestamp", snap.Date)
	}
	if snap.Mode != "exam" {
		t.Errorf("Mode = %q, want exam", snap.Mode)
	}
	if snap.Score.Correct != 1 || snap.Score.Total != 1 || snap.Score.Percentage != 100 {
		t.Errorf("Score = %+v, want 1/1 = 100%%", snap.Score)
	}
	if snap.BrierScore != 0.040 {
		t.Errorf("BrierScore = %.3f, want 0.040", snap.BrierScore)
	}
	if snap.TimeSpentSec != 42 {
		t.Errorf("TimeSpentSec = %d, want 42", snap.TimeSpentSec)
	}
	if len(snap.Answers) != 1 || len(snap.Confidence) != 1 {
		t.Errorf("Answers/Confidence sizes = %d/%d, want 1/1", len(snap.Answers), len(snap.Confidence))
	}
}
