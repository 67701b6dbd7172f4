// Package profile defines the canonical LeetCode profile record and the
// outcome of fetching one from upstream.
package profile

import "github.com/lightningnetwork/lnd/fn/v2"

// Badge is a badge shown on a user's profile page.
type Badge struct {
	ID           string
	Name         string
	DisplayName  string
	Icon         string
	CreationDate string
}

// Label returns the human readable badge name, preferring the display name.
func (b Badge) Label() string {
	if b.DisplayName != "" {
		return b.DisplayName
	}

	return b.Name
}

// LanguageCount is the number of problems solved in a single language.
type LanguageCount struct {
	Language string
	Solved   int
}

// ContestBadge is the contest achievement badge (Knight, Guardian, ...).
type ContestBadge struct {
	Name      string
	Expired   bool
	HoverText string
	Icon      string
}

// Socials holds the external profile links a user has configured.
type Socials struct {
	GitHub   string
	LinkedIn string
	Twitter  string
}

// Profile is the normalized, stable-shape record derived from the raw
// upstream data. Profiles are shared between requests once cached and must be
// treated as read-only.
type Profile struct {
	// Username is the LeetCode handle as reported by upstream.
	Username string

	// Name is the real name, or the username when none is set.
	Name string

	Avatar   string
	About    string
	Country  string
	Company  string
	School   string
	JobTitle string

	Socials Socials

	// Ranking is the global ranking. Unranked users have none.
	Ranking fn.Option[int]

	Reputation int
	StarRating float64

	// Rating mirrors StarRating, defaulting to zero.
	Rating float64

	Badges       []Badge
	Languages    []LanguageCount
	ContestBadge fn.Option[ContestBadge]

	// TotalSolved is EasySolved + MediumSolved + HardSolved whenever the
	// difficulty breakdown is present.
	TotalSolved  int
	EasySolved   int
	MediumSolved int
	HardSolved   int

	// AcceptanceRate is a percentage in [0, 100] with one decimal place,
	// recomputed from the raw submission counts.
	AcceptanceRate float64
}
