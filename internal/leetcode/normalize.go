package leetcode

import (
	"math"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/roasbeef/pushclash/internal/profile"
)

const (
	difficultyEasy   = "Easy"
	difficultyMedium = "Medium"
	difficultyHard   = "Hard"

	// difficultyAll is the aggregate row upstream adds next to the per
	// difficulty rows. Totals are derived from the three tiers, so it is
	// never read.
	difficultyAll = "All"
)

// normalize maps a raw matched user into the canonical profile record.
func normalize(u *matchedUser) *profile.Profile {
	p := &profile.Profile{
		Username: u.Username,
		Name:     u.Username,
		Socials: profile.Socials{
			GitHub:   u.GithubURL,
			LinkedIn: u.LinkedinURL,
			Twitter:  u.TwitterURL,
		},
		Ranking:      fn.None[int](),
		ContestBadge: fn.None[profile.ContestBadge](),
	}

	if up := u.Profile; up != nil {
		if up.RealName != "" {
			p.Name = up.RealName
		}
		p.Avatar = up.UserAvatar
		p.About = up.AboutMe
		p.Country = up.CountryName
		p.Company = up.Company
		p.School = up.School
		p.JobTitle = up.JobTitle
		p.Reputation = up.Reputation
		p.StarRating = up.StarRating
		p.Rating = up.StarRating

		if up.Ranking != nil && *up.Ranking > 0 {
			p.Ranking = fn.Some(*up.Ranking)
		}
	}

	for _, b := range u.Badges {
		p.Badges = append(p.Badges, profile.Badge{
			ID:           b.ID,
			Name:         b.Name,
			DisplayName:  b.DisplayName,
			Icon:         b.Icon,
			CreationDate: b.CreationDate,
		})
	}

	for _, l := range u.LanguageProblemCount {
		p.Languages = append(p.Languages, profile.LanguageCount{
			Language: l.LanguageName,
			Solved:   l.ProblemsSolved,
		})
	}

	if cb := u.ContestBadge; cb != nil {
		p.ContestBadge = fn.Some(profile.ContestBadge{
			Name:      cb.Name,
			Expired:   cb.Expired,
			HoverText: cb.HoverText,
			Icon:      cb.Icon,
		})
	}

	var accepted, total []difficultyCount
	if u.SubmitStats != nil {
		accepted = u.SubmitStats.ACSubmissionNum
		total = u.SubmitStats.TotalSubmissionNum
	}

	p.EasySolved = countFor(accepted, difficultyEasy)
	p.MediumSolved = countFor(accepted, difficultyMedium)
	p.HardSolved = countFor(accepted, difficultyHard)
	p.TotalSolved = p.EasySolved + p.MediumSolved + p.HardSolved
	p.AcceptanceRate = acceptanceRate(
		sumCounts(accepted), sumCounts(total),
	)

	return p
}

// countFor returns the count of the first row labelled difficulty, or zero.
func countFor(rows []difficultyCount, difficulty string) int {
	for _, r := range rows {
		if r.Difficulty == difficulty {
			return nonNegative(r.Count)
		}
	}

	return 0
}

// sumCounts adds up the Easy, Medium and Hard counts, as picked by countFor.
// The aggregate row, duplicates and unknown labels are ignored. It returns
// None when the list itself is missing so callers can tell "absent" from
// "zero".
func sumCounts(rows []difficultyCount) fn.Option[int] {
	if rows == nil {
		return fn.None[int]()
	}

	return fn.Some(countFor(rows, difficultyEasy) +
		countFor(rows, difficultyMedium) +
		countFor(rows, difficultyHard))
}

// acceptanceRate returns accepted/total as a percentage rounded to one
// decimal place, clamped to [0, 100]. Missing sums or a zero denominator
// yield zero.
func acceptanceRate(accepted, total fn.Option[int]) float64 {
	if accepted.IsNone() || total.IsNone() {
		return 0
	}

	num := accepted.UnwrapOr(0)
	den := total.UnwrapOr(0)
	if den <= 0 {
		return 0
	}

	rate := math.Round(float64(num)/float64(den)*1000) / 10

	return math.Min(math.Max(rate, 0), 100)
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}

	return n
}
