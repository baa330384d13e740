// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/openagora/agora-server/models"
)

// Compute derives poll results from the current vote rows. It is a pure
// read: it never mutates its inputs and produces identical output for
// an identical vote set, regardless of input slice order.
//
// Single-choice polls count every row; ranked-choice polls count only
// first-preference rows (rank position 1) - full ranked aggregation is
// deliberately not implemented here. Free-text polls return the list of
// responses instead of option counts.
func Compute(poll models.Poll, options []models.PollOption, votes []models.PollVote) models.PollResults {
	results := models.PollResults{
		PollID:       poll.ID,
		QuestionType: poll.QuestionType,
	}

	switch poll.QuestionType {
	case models.TypeFreeText:
		computeFreeText(&results, votes)
	default:
		computeChoice(&results, poll.QuestionType, options, votes)
	}

	return results
}

func computeChoice(results *models.PollResults, questionType string, options []models.PollOption, votes []models.PollVote) {
	counts := make(map[string]int)

	for _, v := range votes {
		// Ranked-choice tallying uses first preferences only
		if questionType == models.TypeRankedChoice && v.RankPosition != 1 {
			continue
		}
		if v.OptionID == nil {
			continue
		}

		counts[*v.OptionID]++
		results.TotalVotes++
		if v.IsAuthenticated {
			results.AuthenticatedVoteCount++
		} else {
			results.UnauthenticatedVoteCount++
		}
	}

	tallies := make([]models.OptionTally, len(options))
	for i, opt := range options {
		tallies[i] = models.OptionTally{
			OptionID:   opt.ID,
			Text:       opt.Text,
			Position:   opt.Position,
			VoteCount:  counts[opt.ID],
			Percentage: percentage(counts[opt.ID], results.TotalVotes),
		}
	}

	// Descending count, ties broken by original option position, then
	// by option ID so the order is total regardless of input order
	sort.Slice(tallies, func(i, j int) bool {
		a, b := tallies[i], tallies[j]
		if a.VoteCount != b.VoteCount {
			return a.VoteCount > b.VoteCount
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.OptionID < b.OptionID
	})

	results.Options = tallies
}

func computeFreeText(results *models.PollResults, votes []models.PollVote) {
	// Copy before sorting; Compute must not reorder the caller's slice
	sorted := make([]models.PollVote, len(votes))
	copy(sorted, votes)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	responses := []string{}
	for _, v := range sorted {
		if v.FreeText == nil {
			continue
		}
		responses = append(responses, *v.FreeText)
		results.TotalVotes++
		if v.IsAuthenticated {
			results.AuthenticatedVoteCount++
		} else {
			results.UnauthenticatedVoteCount++
		}
	}

	results.Responses = responses
}

// percentage returns count/total as a percentage rounded to one
// decimal, with zero total yielding zero rather than dividing.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	p, err := stats.Round(float64(count)/float64(total)*100, 1)
	if err != nil {
		return 0
	}
	return p
}
