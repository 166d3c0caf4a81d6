package automation

import (
	"errors"
	"fmt"
	"testing"
)

func TestFailureError(t *testing.T) {
	f := NewFailure(KindValidation, "bad input")
	if f.Error() != "VALIDATION_ERROR: bad input" {
		t.Fatalf("unexpected error string: %q", f.Error())
	}

	wrapped := WrapFailure(KindStore, "write failed", errors.New("disk full"))
	if wrapped.Error() != "STORE_ERROR: write failed: disk full" {
		t.Fatalf("unexpected error string: %q", wrapped.Error())
	}
	if !errors.Is(wrapped, wrapped.Err) {
		t.Fatal("expected Unwrap to expose the cause")
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(NewFailure(KindTimeout, "slow")) != KindTimeout {
		t.Fatal("expected timeout kind")
	}
	// a failure buried in a wrap chain is still found
	deep := fmt.Errorf("outer: %w", NewFailure(KindElementNotFound, "missing"))
	if KindOf(deep) != KindElementNotFound {
		t.Fatal("expected kind through wrap chain")
	}
	if KindOf(errors.New("plain")) != KindStore {
		t.Fatal("expected untyped errors to classify as store")
	}
}

func TestRetryable(t *testing.T) {
	if !IsRetryable(NewFailure(KindTimeout, "slow")) {
		t.Fatal("expected timeout to be retryable")
	}
	for _, kind := range []Kind{KindValidation, KindElementNotFound, KindSubmissionFailed, KindStore} {
		if IsRetryable(NewFailure(kind, "x")) {
			t.Fatalf("expected %s to be terminal", kind)
		}
	}
	if IsRetryable(errors.New("plain")) {
		t.Fatal("expected untyped errors to be terminal")
	}
}
