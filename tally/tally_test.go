package tally

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/openagora/agora-server/models"
)

func strPtr(s string) *string { return &s }

func makePoll(questionType string) models.Poll {
	return models.Poll{
		ID:           "poll1",
		Question:     "Test?",
		QuestionType: questionType,
		Status:       models.StatusActive,
	}
}

func makeOptions(ids ...string) []models.PollOption {
	opts := make([]models.PollOption, len(ids))
	for i, id := range ids {
		opts[i] = models.PollOption{
			ID:       id,
			PollID:   "poll1",
			Position: i + 1,
			Text:     "Option " + id,
		}
	}
	return opts
}

func choiceVote(id, optionID string, authenticated bool, rank int) models.PollVote {
	v := models.PollVote{
		ID:              id,
		PollID:          "poll1",
		OptionID:        strPtr(optionID),
		IsAuthenticated: authenticated,
		RankPosition:    rank,
	}
	return v
}

func TestComputeSingleChoice(t *testing.T) {
	poll := makePoll(models.TypeSingleChoice)
	options := makeOptions("a", "b", "c")

	votes := []models.PollVote{
		choiceVote("v1", "b", true, 1),
		choiceVote("v2", "b", false, 1),
		choiceVote("v3", "a", true, 1),
	}

	results := Compute(poll, options, votes)

	if results.TotalVotes != 3 {
		t.Errorf("Expected 3 total votes, got %d", results.TotalVotes)
	}
	if results.AuthenticatedVoteCount != 2 {
		t.Errorf("Expected 2 authenticated votes, got %d", results.AuthenticatedVoteCount)
	}
	if results.UnauthenticatedVoteCount != 1 {
		t.Errorf("Expected 1 unauthenticated vote, got %d", results.UnauthenticatedVoteCount)
	}

	// b (2 votes) first, then a (1), then c (0)
	if results.Options[0].OptionID != "b" || results.Options[0].VoteCount != 2 {
		t.Errorf("Expected b with 2 votes first, got %+v", results.Options[0])
	}
	if results.Options[1].OptionID != "a" || results.Options[1].VoteCount != 1 {
		t.Errorf("Expected a with 1 vote second, got %+v", results.Options[1])
	}
	if results.Options[2].OptionID != "c" || results.Options[2].VoteCount != 0 {
		t.Errorf("Expected c with 0 votes last, got %+v", results.Options[2])
	}

	if results.Options[0].Percentage != 66.7 {
		t.Errorf("Expected 66.7%%, got %v", results.Options[0].Percentage)
	}
	if results.Options[1].Percentage != 33.3 {
		t.Errorf("Expected 33.3%%, got %v", results.Options[1].Percentage)
	}
}

func TestComputePercentagesSum(t *testing.T) {
	poll := makePoll(models.TypeSingleChoice)
	options := makeOptions("a", "b", "c", "d")

	votes := []models.PollVote{
		choiceVote("v1", "a", true, 1),
		choiceVote("v2", "a", true, 1),
		choiceVote("v3", "b", true, 1),
		choiceVote("v4", "c", false, 1),
		choiceVote("v5", "d", false, 1),
		choiceVote("v6", "d", false, 1),
		choiceVote("v7", "d", true, 1),
	}

	results := Compute(poll, options, votes)

	sum := 0.0
	for _, opt := range results.Options {
		sum += opt.Percentage
	}

	// Per-option rounding may drift the sum by up to 0.1 per option
	tolerance := 0.1 * float64(len(options))
	if math.Abs(sum-100.0) > tolerance {
		t.Errorf("Percentages sum to %v, expected 100 +/- %v", sum, tolerance)
	}
}

func TestComputeNoVotes(t *testing.T) {
	poll := makePoll(models.TypeSingleChoice)
	options := makeOptions("a", "b")

	results := Compute(poll, options, nil)

	if results.TotalVotes != 0 {
		t.Errorf("Expected 0 total votes, got %d", results.TotalVotes)
	}
	for _, opt := range results.Options {
		if opt.Percentage != 0 {
			t.Errorf("Expected 0%% for %s with no votes, got %v", opt.OptionID, opt.Percentage)
		}
	}

	// Tie at zero votes resolves by original option position
	if results.Options[0].OptionID != "a" || results.Options[1].OptionID != "b" {
		t.Errorf("Expected position order for tied options, got %s, %s",
			results.Options[0].OptionID, results.Options[1].OptionID)
	}
}

func TestComputeTieBreakByPosition(t *testing.T) {
	poll := makePoll(models.TypeSingleChoice)
	options := makeOptions("x", "y", "z")

	// y and z tied with 1 vote each; y has the earlier position
	votes := []models.PollVote{
		choiceVote("v1", "z", true, 1),
		choiceVote("v2", "y", true, 1),
	}

	results := Compute(poll, options, votes)

	if results.Options[0].OptionID != "y" {
		t.Errorf("Expected y first on position tiebreak, got %s", results.Options[0].OptionID)
	}
	if results.Options[1].OptionID != "z" {
		t.Errorf("Expected z second, got %s", results.Options[1].OptionID)
	}
}

func TestComputeRankedChoiceFirstPreferenceOnly(t *testing.T) {
	poll := makePoll(models.TypeRankedChoice)
	options := makeOptions("a", "b", "c")

	// Two voters, full rankings; only rank 1 rows should count
	votes := []models.PollVote{
		choiceVote("v1", "a", true, 1),
		choiceVote("v2", "b", true, 2),
		choiceVote("v3", "c", true, 3),
		choiceVote("v4", "a", false, 1),
		choiceVote("v5", "c", false, 2),
	}

	results := Compute(poll, options, votes)

	if results.TotalVotes != 2 {
		t.Errorf("Expected 2 first-preference votes, got %d", results.TotalVotes)
	}
	if results.Options[0].OptionID != "a" || results.Options[0].VoteCount != 2 {
		t.Errorf("Expected a with 2 first preferences, got %+v", results.Options[0])
	}
	if results.AuthenticatedVoteCount != 1 || results.UnauthenticatedVoteCount != 1 {
		t.Errorf("Breakdown should count first-preference rows only: %d/%d",
			results.AuthenticatedVoteCount, results.UnauthenticatedVoteCount)
	}
}

func TestComputeFreeText(t *testing.T) {
	poll := makePoll(models.TypeFreeText)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	votes := []models.PollVote{
		{ID: "v2", PollID: "poll1", FreeText: strPtr("second"), CreatedAt: base.Add(time.Minute)},
		{ID: "v1", PollID: "poll1", FreeText: strPtr("first"), IsAuthenticated: true, CreatedAt: base},
	}

	results := Compute(poll, nil, votes)

	if results.TotalVotes != 2 {
		t.Errorf("Expected 2 responses, got %d", results.TotalVotes)
	}
	if !reflect.DeepEqual(results.Responses, []string{"first", "second"}) {
		t.Errorf("Expected submission-order responses, got %v", results.Responses)
	}
	if len(results.Options) != 0 {
		t.Error("Free-text results should not carry option tallies")
	}
	if results.AuthenticatedVoteCount != 1 || results.UnauthenticatedVoteCount != 1 {
		t.Errorf("Unexpected breakdown: %d/%d",
			results.AuthenticatedVoteCount, results.UnauthenticatedVoteCount)
	}
}

func TestComputeDeterministicAcrossInputOrder(t *testing.T) {
	poll := makePoll(models.TypeSingleChoice)
	options := makeOptions("a", "b", "c")

	votes := []models.PollVote{
		choiceVote("v1", "a", true, 1),
		choiceVote("v2", "b", false, 1),
		choiceVote("v3", "c", true, 1),
		choiceVote("v4", "b", true, 1),
	}

	first := Compute(poll, options, votes)

	// Reverse the vote slice; output must be bit-identical
	reversed := make([]models.PollVote, len(votes))
	for i, v := range votes {
		reversed[len(votes)-1-i] = v
	}
	second := Compute(poll, options, reversed)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Results differ across input order:\n%+v\n%+v", first, second)
	}
}
