package responses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/huddlebuy/huddlebuy-backend/pkg/errors"
)

func TestWriteSuccessWrapsData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"name": "office order"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var payload struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Data["name"] != "office order" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", pkgerrors.New(pkgerrors.CodeValidation, "bad input"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found", pkgerrors.New(pkgerrors.CodeNotFound, "group not found"), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", pkgerrors.New(pkgerrors.CodeConflict, "already finalized"), http.StatusConflict, "CONFLICT"},
		{"group full", pkgerrors.New(pkgerrors.CodeGroupFull, "group full"), http.StatusConflict, "GROUP_FULL"},
		{"expired", pkgerrors.New(pkgerrors.CodeExpired, "deadline passed"), http.StatusGone, "EXPIRED"},
		{"forbidden", pkgerrors.New(pkgerrors.CodeForbidden, "nope"), http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), nil, rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d got %d", tt.wantStatus, rec.Code)
			}
			var payload struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if payload.Error.Code != tt.wantCode {
				t.Fatalf("expected code %s got %s", tt.wantCode, payload.Error.Code)
			}
		})
	}
}

func TestWriteErrorMasksInternalMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeInternal, "connection string leaked"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error.Message != "internal server error" {
		t.Fatalf("internal detail must not leak, got %q", payload.Error.Message)
	}
}
