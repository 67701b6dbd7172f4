package leetcode

// fullProfileQuery requests everything the roast needs in a single round
// trip: identity, badges, submission stats, language counts and the contest
// badge.
const fullProfileQuery = `query getFullProfile($username: String!) {
  matchedUser(username: $username) {
    username
    githubUrl
    linkedinUrl
    twitterUrl
    profile {
      realName
      userAvatar
      aboutMe
      countryName
      company
      school
      jobTitle
      ranking
      reputation
      starRating
    }
    badges {
      id
      name
      displayName
      icon
      creationDate
    }
    submitStats {
      acSubmissionNum {
        difficulty
        count
        submissions
      }
      totalSubmissionNum {
        difficulty
        count
        submissions
      }
    }
    languageProblemCount {
      languageName
      problemsSolved
    }
    contestBadge {
      name
      expired
      hoverText
      icon
    }
  }
}`

// graphQLRequest is the POST body sent to the GraphQL endpoint.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphQLError is a single entry of the top-level errors list.
type graphQLError struct {
	Message string `json:"message"`
}

// graphQLResponse is the envelope returned by the endpoint. Data is a pointer
// so a missing or null envelope can be told apart from an empty one.
type graphQLResponse struct {
	Data   *responseData  `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type responseData struct {
	MatchedUser *matchedUser `json:"matchedUser"`
}

type matchedUser struct {
	Username             string            `json:"username"`
	GithubURL            string            `json:"githubUrl"`
	LinkedinURL          string            `json:"linkedinUrl"`
	TwitterURL           string            `json:"twitterUrl"`
	Profile              *userProfile      `json:"profile"`
	Badges               []badge           `json:"badges"`
	SubmitStats          *submitStats      `json:"submitStats"`
	LanguageProblemCount []languageProblem `json:"languageProblemCount"`
	ContestBadge         *contestBadge     `json:"contestBadge"`
}

type userProfile struct {
	RealName    string  `json:"realName"`
	UserAvatar  string  `json:"userAvatar"`
	AboutMe     string  `json:"aboutMe"`
	CountryName string  `json:"countryName"`
	Company     string  `json:"company"`
	School      string  `json:"school"`
	JobTitle    string  `json:"jobTitle"`
	Ranking     *int    `json:"ranking"`
	Reputation  int     `json:"reputation"`
	StarRating  float64 `json:"starRating"`
}

type badge struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Icon         string `json:"icon"`
	CreationDate string `json:"creationDate"`
}

// submitStats lists counts per difficulty. A nil slice means the field was
// absent from the response, which matters for the acceptance rate.
type submitStats struct {
	ACSubmissionNum    []difficultyCount `json:"acSubmissionNum"`
	TotalSubmissionNum []difficultyCount `json:"totalSubmissionNum"`
}

type difficultyCount struct {
	Difficulty  string `json:"difficulty"`
	Count       int    `json:"count"`
	Submissions int    `json:"submissions"`
}

type languageProblem struct {
	LanguageName   string `json:"languageName"`
	ProblemsSolved int    `json:"problemsSolved"`
}

type contestBadge struct {
	Name      string `json:"name"`
	Expired   bool   `json:"expired"`
	HoverText string `json:"hoverText"`
	Icon      string `json:"icon"`
}
