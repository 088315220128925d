package metadata

import (
	"time"
)

type FetchEvent struct {
	fetchUrl    string
	httpStatus  int
	duration    time.Duration
	contentType string
	retryCount  int
}

/*
runStats
  - Represents a terminal, derived summary of a completed run
  - Contains only aggregate counts and durations
  - Is computed by the scheduler after every page was processed
  - Is recorded exactly once
  - Must not influence scheduling, retries, or termination
*/
type runStats struct {
	totalPages  int
	totalErrors int
	totalTopics int
	durationMs  int64
}

type ArtifactKind string

const (
	ArtifactThreadJSON     ArtifactKind = "thread_json"
	ArtifactThreadMarkdown ArtifactKind = "thread_markdown"
)

type ArtifactRecord struct {
	kind  ArtifactKind
	path  string
	attrs []Attribute
}

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, reporting).

	Rules:
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause MUST NOT be used for retry, continuation, or abort decisions.
	 - Pipeline packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown

Meaning:
  - The failure does not map cleanly to any known category.

# CauseNetworkFailure

Meaning:
  - Failure caused by network transport or remote availability.

Examples:
  - TCP timeouts
  - HTTP 5xx from the rendering backend

# CausePolicyDisallow

Meaning:
  - Retrieval was refused by the remote side.

Examples:
  - HTTP 403 / 401
  - HTTP 429 after all retries

# CauseContentInvalid

Meaning:
  - Content was obtained but could not be processed meaningfully.

Examples:
  - Non-HTML responses
  - Documents without a body

# CauseStorageFailure

Meaning:
  - Failure while persisting thread artifacts.

# CauseRetryFailure

Meaning:
  - A retried operation exhausted its attempts.

# CauseInvariantViolation

Meaning:
  - An internal consistency check failed.

Examples:
  - Negative reply depth
  - List run with inverted bounds
*/
const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CausePolicyDisallow
	CauseContentInvalid
	CauseStorageFailure
	CauseRetryFailure
	CauseInvariantViolation
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CausePolicyDisallow:
		return "policy_disallow"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseRetryFailure:
		return "retry_failure"
	case CauseInvariantViolation:
		return "invariant_violation"
	default:
		return "unknown"
	}
}

type ErrorRecord struct {
	packageName string
	action      string
	cause       ErrorCause
	errorString string
	observedAt  time.Time
	attrs       []Attribute
}

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrTime       AttributeKey = "time"
	AttrURL        AttributeKey = "url"
	AttrHost       AttributeKey = "host"
	AttrTitle      AttributeKey = "title"
	AttrLanguage   AttributeKey = "language"
	AttrDepth      AttributeKey = "depth"
	AttrField      AttributeKey = "field"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrTopic      AttributeKey = "topic"
	AttrWritePath  AttributeKey = "write_path"
)
