package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code    Code
		status  int
		message string
	}{
		{CodeValidation, http.StatusUnprocessableEntity, "Validation failed."},
		{CodeUnauthorized, http.StatusUnauthorized, "Your session has expired. Please log in again."},
		{CodeForbidden, http.StatusForbidden, "You do not have permission to access this resource."},
		{CodeNotFound, http.StatusNotFound, "The requested resource was not found."},
		{CodeRateLimit, http.StatusTooManyRequests, "Too many requests. Please try again later."},
		{CodeServer, http.StatusInternalServerError, "Server error. Please try again later."},
		{CodeGeneric, http.StatusInternalServerError, "Something went wrong."},
	}

	for _, tc := range cases {
		meta := MetadataFor(tc.code)
		if meta.HTTPStatus != tc.status {
			t.Fatalf("%s: expected status %d, got %d", tc.code, tc.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tc.message {
			t.Fatalf("%s: unexpected message %q", tc.code, meta.PublicMessage)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("WHAT"))
	if meta.PublicMessage != "Something went wrong." {
		t.Fatalf("expected generic fallback, got %q", meta.PublicMessage)
	}
}

func TestFromStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		want   Code
	}{
		{http.StatusUnauthorized, CodeUnauthorized},
		{http.StatusForbidden, CodeForbidden},
		{http.StatusNotFound, CodeNotFound},
		{http.StatusUnprocessableEntity, CodeValidation},
		{http.StatusTooManyRequests, CodeRateLimit},
		{http.StatusInternalServerError, CodeServer},
		{http.StatusBadGateway, CodeServer},
		{http.StatusServiceUnavailable, CodeServer},
		{http.StatusGatewayTimeout, CodeServer},
		{http.StatusTeapot, CodeGeneric},
		{0, CodeGeneric},
	}

	for _, tc := range cases {
		if got := FromStatus(tc.status); got != tc.want {
			t.Fatalf("status %d: expected %s, got %s", tc.status, tc.want, got)
		}
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("disk on fire")
	err := Wrap(CodeServer, cause, "load state")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	if typed := As(fmt.Errorf("outer: %w", err)); typed == nil || typed.Code() != CodeServer {
		t.Fatalf("expected typed error through the chain, got %v", typed)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("root")
	err := Wrap(CodeNotFound, cause, "missing product")

	info := Dump(err)
	if info.Code != string(CodeNotFound) {
		t.Fatalf("unexpected code %q", info.Code)
	}
	if len(info.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(info.Chain))
	}
}
