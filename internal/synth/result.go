package synth

// ResultKind tags the three outcomes of a synthesis call.
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultEmpty
	ResultFailure
)

func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultEmpty:
		return "empty"
	case ResultFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of one synthesis call. Exactly one of the variants
// holds: Success carries a payload, Empty carries nothing, Failure carries a
// classified error.
type Result struct {
	Kind    ResultKind
	Payload string // base64 PCM, set for ResultSuccess
	Err     *Error // set for ResultFailure
}

// Success wraps an encoded audio payload.
func Success(payload string) Result {
	return Result{Kind: ResultSuccess, Payload: payload}
}

// Empty is a well-formed response that carried no audio.
func Empty() Result {
	return Result{Kind: ResultEmpty}
}

// Failure wraps a failed call, classifying err if needed.
func Failure(err error) Result {
	return Result{Kind: ResultFailure, Err: Classify(err)}
}

// OK reports whether the result carries a payload.
func (r Result) OK() bool {
	return r.Kind == ResultSuccess
}

// IsQuota reports whether the result is a quota failure.
func (r Result) IsQuota() bool {
	return r.Kind == ResultFailure && r.Err != nil && r.Err.Kind == KindQuota
}
