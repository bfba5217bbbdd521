package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/porrapolo/match-engine/internal/domain/question"
	"github.com/porrapolo/match-engine/internal/usecase"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		httpStatus int
		status     string
		reason     string
	}{
		{"invalid input", fmt.Errorf("%w: blank form id", usecase.ErrInvalidInput), http.StatusBadRequest, "INVALID_ARGUMENT", "invalidInput"},
		{"invalid question", fmt.Errorf("%w: match 0", usecase.ErrInvalidQuestion), http.StatusBadRequest, "INVALID_ARGUMENT", "invalidInput"},
		{"empty team name", question.ErrEmptyTeamName, http.StatusBadRequest, "INVALID_ARGUMENT", "invalidInput"},
		{"bad match number", question.ErrInvalidMatchNumber, http.StatusBadRequest, "INVALID_ARGUMENT", "invalidInput"},
		{"not found", fmt.Errorf("%w: form", usecase.ErrNotFound), http.StatusNotFound, "NOT_FOUND", "notFound"},
		{"unauthorized", usecase.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHENTICATED", "unauthorized"},
		{"dependency down", usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE", "dependencyUnavailable"},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "INTERNAL", "internalError"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			mapped := mapError(context.Background(), tc.err)
			if mapped.HTTPStatus != tc.httpStatus {
				t.Fatalf("status = %d, want %d", mapped.HTTPStatus, tc.httpStatus)
			}
			if mapped.Status != tc.status {
				t.Fatalf("status text = %s, want %s", mapped.Status, tc.status)
			}
			if mapped.Reason != tc.reason {
				t.Fatalf("reason = %s, want %s", mapped.Reason, tc.reason)
			}
		})
	}
}

func TestWriteSuccessEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %s", ct)
	}

	var envelope struct {
		APIVersion string            `json:"apiVersion"`
		Data       map[string]string `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.APIVersion != "2.0" {
		t.Fatalf("apiVersion = %s", envelope.APIVersion)
	}
	if envelope.Data["status"] != "ok" {
		t.Fatalf("unexpected data: %v", envelope.Data)
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: form wp-2026-j99", usecase.ErrNotFound))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error == nil {
		t.Fatal("expected error body")
	}
	if envelope.Error.Code != http.StatusNotFound || envelope.Error.Status != "NOT_FOUND" {
		t.Fatalf("unexpected error body: %+v", envelope.Error)
	}
	if len(envelope.Error.Errors) != 1 || envelope.Error.Errors[0].Domain != "match-engine" {
		t.Fatalf("unexpected error items: %+v", envelope.Error.Errors)
	}
}
