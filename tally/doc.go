// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally computes poll results from vote rows.

Compute is a pure function over (poll, options, votes):

	results := tally.Compute(poll, options, votes)

Results are always derived fresh - nothing in this package reads or
writes storage, which is what lets the results endpoint recompute on
every request and lets tests feed in-memory fixtures.

Option tallies are sorted by descending vote count with ties broken by
the option's original position, so output is deterministic for a fixed
vote set. Percentages are rounded to one decimal; a poll with no votes
reports zero for every option rather than dividing by zero.

The authenticated/unauthenticated breakdown counts only the rows that
participate in the tally (for ranked-choice, the first-preference rows).
*/
package tally
