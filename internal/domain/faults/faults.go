package faults

import (
	"errors"
	"fmt"
)

// Kind classifies which pipeline stage a failure came from. The façade maps
// kinds to HTTP codes; nothing is retried above the stage that failed.
type Kind string

const (
	Load        Kind = "LOAD_FAILURE"
	Split       Kind = "SPLIT_FAILURE"
	Embedding   Kind = "EMBEDDING_FAILURE"
	VectorStore Kind = "VECTOR_STORE_FAILURE"
	Generation  Kind = "GENERATION_FAILURE"
	Validation  Kind = "VALIDATION_FAILURE"
)

// Fault wraps a stage failure with its kind and the offending source
// identifier (file path, URL or collection name).
type Fault struct {
	Kind   Kind
	Source string
	Err    error
}

func (f *Fault) Error() string {
	if f.Source != "" {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Source, f.Err)
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Details is the free-text cause surfaced in the JSON error body.
func (f *Fault) Details() string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return f.Err.Error()
}

func New(kind Kind, source string, err error) *Fault {
	return &Fault{Kind: kind, Source: source, Err: err}
}

func Newf(kind Kind, source string, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Source: source, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the Kind from err, or empty if err is not a Fault.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// Is reports whether err is a Fault of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
