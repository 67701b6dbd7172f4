package roast

import (
	"fmt"
	"net/url"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/roasbeef/pushclash/internal/profile"
)

// UserView is the identity block of a roast response.
type UserView struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
	Name      string `json:"name"`
}

// StatsView is the numeric stats block of a roast response. Placeholder
// outcomes report zeros and a null ranking.
type StatsView struct {
	TotalSolved    int     `json:"totalSolved"`
	EasySolved     int     `json:"easySolved"`
	MediumSolved   int     `json:"mediumSolved"`
	HardSolved     int     `json:"hardSolved"`
	AcceptanceRate float64 `json:"acceptanceRate"`
	Rating         float64 `json:"rating"`
	Ranking        *int    `json:"ranking"`
}

// Response is the assembled result of a roast request.
type Response struct {
	User        UserView     `json:"user"`
	Stats       StatsView    `json:"leetcodeStats"`
	RoastResult string       `json:"roastResult"`
	RoastHTML   string       `json:"roastHtml,omitempty"`
	Outcome     profile.Kind `json:"outcome"`
}

// generatedAvatarURL returns a placeholder avatar for users without one.
func generatedAvatarURL(username string) string {
	return fmt.Sprintf(
		"https://ui-avatars.com/api/?name=%s&background=random",
		url.QueryEscape(username),
	)
}

// viewsFor builds the identity and stats blocks for an outcome. username is
// the identifier the caller asked for.
func viewsFor(username string, outcome profile.Outcome) (UserView,
	StatsView) {

	user := UserView{
		Username:  username,
		AvatarURL: generatedAvatarURL(username),
		Name:      username,
	}

	success, ok := outcome.(profile.Success)
	if !ok {
		return user, StatsView{}
	}

	p := success.Profile
	if p.Avatar != "" {
		user.AvatarURL = p.Avatar
	}
	if p.Name != "" {
		user.Name = p.Name
	}

	stats := StatsView{
		TotalSolved:    p.TotalSolved,
		EasySolved:     p.EasySolved,
		MediumSolved:   p.MediumSolved,
		HardSolved:     p.HardSolved,
		AcceptanceRate: p.AcceptanceRate,
		Rating:         p.Rating,
		Ranking:        optionPtr(p.Ranking),
	}

	return user, stats
}

func optionPtr[T any](o fn.Option[T]) *T {
	var out *T
	o.WhenSome(func(v T) {
		out = &v
	})

	return out
}
