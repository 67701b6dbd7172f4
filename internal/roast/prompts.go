package roast

import (
	"fmt"
	"strings"

	"github.com/roasbeef/pushclash/internal/profile"
)

// Output budgets per outcome kind. The placeholder replies are a handful of
// lines, the full roast is about a dozen.
const (
	apologyMaxTokens  = 200
	notFoundMaxTokens = 250
	roastMaxTokens    = 800
)

// roasterSystemPrompt frames every request, placeholders included.
const roasterSystemPrompt = `You are a stand-up comedian who roasts ` +
	`competitive programmers based on their public LeetCode profile.

Rules:
- Talk directly to the person, second person, no preamble
- No meta text, headings or labels; the reply is shown to the user as is
- Use emojis where they land a joke
- Be brutal about the stats but never about protected characteristics`

// buildRequest selects the prompt for an outcome. Every variant has exactly
// one prompt.
func buildRequest(outcome profile.Outcome) (Request, error) {
	switch o := outcome.(type) {
	case profile.Success:
		return Request{
			System:    roasterSystemPrompt,
			Prompt:    buildRoastPrompt(o.Profile),
			MaxTokens: roastMaxTokens,
		}, nil

	case profile.NotFound:
		return Request{
			System:    roasterSystemPrompt,
			Prompt:    buildNotFoundPrompt(o.Username),
			MaxTokens: notFoundMaxTokens,
		}, nil

	case profile.UpstreamFailure:
		return Request{
			System:    roasterSystemPrompt,
			Prompt:    buildApologyPrompt(o.Username),
			MaxTokens: apologyMaxTokens,
		}, nil

	default:
		return Request{}, fmt.Errorf("unknown outcome type: %T", outcome)
	}
}

// buildApologyPrompt asks for a short self-deprecating apology for our own
// failure to reach LeetCode.
func buildApologyPrompt(username string) string {
	return fmt.Sprintf("We tried to load the LeetCode profile of %q "+
		"but our backend could not reach LeetCode. This is our fault, "+
		"not theirs. Roast us, the backend team, for dropping the "+
		"ball and tell the user it is on us. Be funny and "+
		"self-deprecating. Answer in 3 to 4 lines, no more.",
		username)
}

// buildNotFoundPrompt asks for a short reply explaining the user does not
// exist, so there is nothing to roast.
func buildNotFoundPrompt(username string) string {
	return fmt.Sprintf("We looked up %q on LeetCode and no such user "+
		"exists. Tell the requester the account does not exist, so "+
		"you cannot roast someone who is not there, and poke fun at "+
		"us for searching anyway. Answer in 4 to 5 lines, no more.",
		username)
}

// buildRoastPrompt assembles the profile brief and the roast instructions.
func buildRoastPrompt(p *profile.Profile) string {
	var b strings.Builder

	b.WriteString("Roast this LeetCode user.\n\n")
	writeBrief(&b, p)

	b.WriteString(`
Cover:
1. Problem solving pattern (easy vs medium vs hard)
2. Contest participation and performance
3. Professional background vs actual coding skill
4. Social media presence vs actual skill
5. Badge collection, or the lack of one
6. Language preferences and diversity
7. Global ranking and reputation

Mock things like dodging hard problems, never entering a contest, empty ` +
		`social profiles, meaningless badges or a sad ranking. Pop ` +
		`culture and meme references are welcome.

Keep it to about 10 to 12 lines.`)

	return b.String()
}

// writeBrief renders the structured profile summary the model works from.
func writeBrief(b *strings.Builder, p *profile.Profile) {
	line := func(label, value string) {
		fmt.Fprintf(b, "%s: %s\n", label, value)
	}

	line("Username", p.Username)
	line("Real name", orDefault(p.Name, "Not provided"))
	line("About", orDefault(p.About, "No bio"))
	line("Country", orDefault(p.Country, "Unknown"))
	line("Company", orDefault(p.Company, "Unemployed or not specified"))
	line("School", orDefault(p.School, "Not specified"))
	line("Job title", orDefault(p.JobTitle, "Not specified"))

	b.WriteString("\nSocial links:\n")
	line("- GitHub", orDefault(p.Socials.GitHub, "None"))
	line("- LinkedIn", orDefault(p.Socials.LinkedIn, "None"))
	line("- Twitter", orDefault(p.Socials.Twitter, "None"))

	b.WriteString("\nStanding:\n")
	ranking := "Not ranked"
	p.Ranking.WhenSome(func(r int) {
		ranking = fmt.Sprintf("#%d", r)
	})
	line("- Global ranking", ranking)
	if p.StarRating > 0 {
		line("- Star rating", fmt.Sprintf("%.1f", p.StarRating))
	} else {
		line("- Star rating", "No stars")
	}
	line("- Reputation", fmt.Sprintf("%d", p.Reputation))

	b.WriteString("\nProblems:\n")
	line("- Total solved", fmt.Sprintf("%d", p.TotalSolved))
	line("- Easy", fmt.Sprintf("%d", p.EasySolved))
	line("- Medium", fmt.Sprintf("%d", p.MediumSolved))
	line("- Hard", fmt.Sprintf("%d", p.HardSolved))
	line("- Acceptance rate", fmt.Sprintf("%.1f%%", p.AcceptanceRate))

	b.WriteString("\n")
	if len(p.Badges) == 0 {
		line("Badges", "None at all")
	} else {
		labels := make([]string, 0, len(p.Badges))
		for _, badge := range p.Badges {
			labels = append(labels, badge.Label())
		}
		line("Badges", strings.Join(labels, ", "))
	}

	if len(p.Languages) == 0 {
		line("Languages", "No language data")
	} else {
		langs := make([]string, 0, len(p.Languages))
		for _, l := range p.Languages {
			langs = append(langs, fmt.Sprintf(
				"%s (%d solved)", l.Language, l.Solved,
			))
		}
		line("Languages", strings.Join(langs, ", "))
	}

	contest := "No contest achievements"
	p.ContestBadge.WhenSome(func(cb profile.ContestBadge) {
		contest = cb.Name
		if cb.Expired {
			contest += " (expired)"
		}
	})
	line("Contest badge", contest)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}

	return s
}
