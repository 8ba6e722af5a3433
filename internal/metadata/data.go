package metadata

import (
	"time"
)

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, metrics, reporting).

	Rules:
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause MUST NOT be used to decide whether an analysis aborts,
	   whether a keyword is skipped or whether a request is retried.
	 - ErrorCause values MUST have stable, package-agnostic semantics.
	 - Pipeline packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.
	Non-goals:
	 - ErrorCause does not encode severity.
	 - ErrorCause does not imply retryability.

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
  - DNS resolution failures
  - 5xx answers from the analyzed page

# CauseProviderFailure

Meaning:
  - A question source could not answer for one keyword.

Examples:
  - Search API quota exceeded
  - Malformed search API payload

# CauseContentInvalid

Meaning:
  - Content was fetched but could not be processed meaningfully.

Examples:
  - Non-HTML responses
  - 4xx answers from the analyzed page

# CauseStorageFailure

Meaning:
  - Failure while looking up or persisting analysis results.

Examples:
  - Disk full
  - Redis unreachable
  - Corrupt stored record

# CauseRetryFailure

Meaning:
  - All retry attempts were used up or the wait was cancelled.

# CauseParseDegradation

Meaning:
  - The page could not be parsed into structural fields and an empty
    structure was used instead.
*/
const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CauseProviderFailure
	CauseContentInvalid
	CauseStorageFailure
	CauseRetryFailure
	CauseParseDegradation
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CauseProviderFailure:
		return "provider_failure"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseRetryFailure:
		return "retry_failure"
	case CauseParseDegradation:
		return "parse_degradation"
	default:
		return "unknown"
	}
}

type ArtifactKind string

const (
	ArtifactAnalysisFile ArtifactKind = "analysis_file"
	ArtifactAnalysisKey  ArtifactKind = "analysis_key"
)

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
	AttrURL        AttributeKey = "url"
	AttrHost       AttributeKey = "host"
	AttrField      AttributeKey = "field"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrKeyword    AttributeKey = "keyword"
	AttrSource     AttributeKey = "source"
	AttrWritePath  AttributeKey = "write_path"
	AttrStoreKey   AttributeKey = "store_key"
	AttrMessage    AttributeKey = "message"
)

/*
AnalysisSummary
  - Represents a terminal, derived summary of one finished analysis
  - Contains only counts, scores and durations
  - Is computed by the analyzer after the result is assembled
  - Is recorded exactly once per Analyze call
  - Must not influence caching or scoring
*/
type AnalysisSummary struct {
	URL             string
	CacheHit        bool
	SeedKeywords    int
	PageQuestions   int
	SearchQuestions int
	StructureScore  int
	FinalScore      int
	Duration        time.Duration
}
