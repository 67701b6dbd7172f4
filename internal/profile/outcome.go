package profile

// Kind names an outcome variant. It is used in logs and API responses.
type Kind string

const (
	// KindSuccess marks a fetched and normalized profile.
	KindSuccess Kind = "success"

	// KindNotFound marks a username that does not exist upstream.
	KindNotFound Kind = "not_found"

	// KindUpstreamFailure marks a failed or malformed upstream call.
	KindUpstreamFailure Kind = "upstream_failure"
)

// Outcome is the sealed result of a single fetch attempt. Exactly one of
// Success, NotFound or UpstreamFailure is produced per attempt.
type Outcome interface {
	// Identifier returns the username the outcome refers to.
	Identifier() string

	// Kind returns the variant tag.
	Kind() Kind

	isOutcome()
}

// Success carries a normalized profile.
type Success struct {
	Profile *Profile
}

// Identifier implements Outcome.
func (s Success) Identifier() string { return s.Profile.Username }

// Kind implements Outcome.
func (Success) Kind() Kind { return KindSuccess }
func (Success) isOutcome() {}

// NotFound means upstream answered but has no such user.
type NotFound struct {
	Username string
}

// Identifier implements Outcome.
func (n NotFound) Identifier() string { return n.Username }

// Kind implements Outcome.
func (NotFound) Kind() Kind { return KindNotFound }
func (NotFound) isOutcome() {}

// UpstreamFailure means the profile could not be retrieved for reasons on our
// side of the fence: transport errors, bad status codes or a response without
// a data envelope.
type UpstreamFailure struct {
	Username string

	// Cause is the underlying failure, kept for logging only.
	Cause error
}

// Identifier implements Outcome.
func (u UpstreamFailure) Identifier() string { return u.Username }

// Kind implements Outcome.
func (UpstreamFailure) Kind() Kind { return KindUpstreamFailure }
func (UpstreamFailure) isOutcome() {}

// Ensure the variants implement Outcome at compile time.
var (
	_ Outcome = Success{}
	_ Outcome = NotFound{}
	_ Outcome = UpstreamFailure{}
)
