package contracts

// EventKind is the kind of repository occurrence delivered by the event source
type EventKind string

const (
	// EventKindOpened fires when a pull request is opened
	EventKindOpened EventKind = "opened"
	// EventKindReopened fires when a closed pull request is reopened
	EventKindReopened EventKind = "reopened"
	// EventKindSynchronized fires when new commits are pushed to a pull request
	EventKindSynchronized EventKind = "synchronized"
	// EventKindPushed fires when commits are pushed to a branch
	EventKindPushed EventKind = "pushed"
)

// IsKnown returns true for the closed enumeration of supported event kinds; any
// kind added by the event source platform later returns false so it fails closed
func (k EventKind) IsKnown() bool {
	switch k {
	case EventKindOpened, EventKindReopened, EventKindSynchronized, EventKindPushed:
		return true
	}

	return false
}

// IsPullRequest returns true for event kinds originating from a pull request
func (k EventKind) IsPullRequest() bool {
	switch k {
	case EventKindOpened, EventKindReopened, EventKindSynchronized:
		return true
	}

	return false
}

// Event represents one repository occurrence as received from the webhook source
type Event struct {
	Kind      EventKind `json:"kind"`
	RepoURL   string    `json:"repo_url"`
	HeadSHA   string    `json:"head_sha"`
	UserEmail string    `json:"user_email"`
	FromFork  *bool     `json:"from_fork,omitempty"`
}

// IsFromFork returns true when the event source flagged the pull request as
// coming from a fork of the repository; absent means not a fork
func (e Event) IsFromFork() bool {
	return e.FromFork != nil && *e.FromFork
}
