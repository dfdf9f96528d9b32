package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestOpErrorWrapUnwrap(t *testing.T) {
	root := errors.New("root")
	err := &OpError{
		Op:   "groupmeapi.messages",
		Kind: KindMessageFetch,
		Err:  root,
	}

	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is to match cause")
	}

	var got *OpError
	if !errors.As(fmt.Errorf("outer: %w", err), &got) {
		t.Fatalf("expected errors.As to match OpError")
	}
	if got.Kind != KindMessageFetch {
		t.Fatalf("expected kind %s", KindMessageFetch)
	}
}

func TestOpErrorMessage(t *testing.T) {
	err := &OpError{Op: "imagestore.write", Kind: KindImageDownload, Path: "/tmp/x.jpg", Err: errors.New("disk full")}
	want := "imagestore.write: image_download (path=/tmp/x.jpg): disk full"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}

	var nilErr *OpError
	if nilErr.Error() != "<nil>" {
		t.Fatalf("expected <nil> for nil receiver")
	}
}

func TestIsKind(t *testing.T) {
	err := &OpError{Kind: KindTokenMissing, Err: ErrTokenMissing}

	if !IsKind(err, KindTokenMissing) {
		t.Fatalf("expected IsKind to match")
	}
	if IsKind(err, KindNotFound) {
		t.Fatalf("expected IsKind not to match other kinds")
	}
	if IsKind(errors.New("plain"), KindTokenMissing) {
		t.Fatalf("expected plain errors not to match")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(errors.New("plain")); got != KindExecution {
		t.Fatalf("expected execution, got %s", got)
	}
	if got := KindOf(&OpError{Kind: KindOpenAIService}); got != KindOpenAIService {
		t.Fatalf("expected openai_service, got %s", got)
	}
}

func TestIsScraperError(t *testing.T) {
	if !IsScraperError(&OpError{Kind: KindGroupSelection}) {
		t.Fatalf("expected group selection to be a scraper error")
	}
	if IsScraperError(&OpError{Kind: KindInvalidConfig}) {
		t.Fatalf("expected invalid config not to be a scraper error")
	}
	if IsScraperError(errors.New("plain")) {
		t.Fatalf("expected plain error not to be a scraper error")
	}
}
