package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/lexpractice/lexledger/internal/adapter/http/dto"
	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/usecase"
)

type trustServiceStub struct {
	depositFn   func(ctx context.Context, input usecase.RecordTrustEntryInput) (*domain.TrustEntry, error)
	withdrawFn  func(ctx context.Context, input usecase.RecordTrustEntryInput) (*domain.TrustEntry, error)
	balanceFn   func(ctx context.Context, matterID string) (domain.TrustAccount, error)
	entriesFn   func(ctx context.Context, matterID string, limit, offset int) ([]*domain.TrustEntry, error)
	reconcileFn func(ctx context.Context, matterID string) (*usecase.TrustReconciliation, error)
}

func (s *trustServiceStub) RecordDeposit(ctx context.Context, input usecase.RecordTrustEntryInput) (*domain.TrustEntry, error) {
	return s.depositFn(ctx, input)
}

func (s *trustServiceStub) RecordWithdrawal(ctx context.Context, input usecase.RecordTrustEntryInput) (*domain.TrustEntry, error) {
	return s.withdrawFn(ctx, input)
}

func (s *trustServiceStub) GetBalance(ctx context.Context, matterID string) (domain.TrustAccount, error) {
	return s.balanceFn(ctx, matterID)
}

func (s *trustServiceStub) ListEntries(ctx context.Context, matterID string, limit, offset int) ([]*domain.TrustEntry, error) {
	return s.entriesFn(ctx, matterID, limit, offset)
}

func (s *trustServiceStub) Reconcile(ctx context.Context, matterID string) (*usecase.TrustReconciliation, error) {
	return s.reconcileFn(ctx, matterID)
}

// newRequest builds a request as the router would deliver it: with chi URL
// params and an authenticated actor.
func newRequest(method, target string, body any, params map[string]string, actor domain.Actor) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}

	req := httptest.NewRequest(method, target, &buf)

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = domain.WithActor(ctx, actor)

	return req.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) dto.Envelope {
	t.Helper()

	var raw struct {
		Success bool                `json:"success"`
		Data    json.RawMessage     `json:"data"`
		Message string              `json:"message"`
		Errors  []domain.FieldError `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	if data != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
	}
	return dto.Envelope{Success: raw.Success, Message: raw.Message, Errors: raw.Errors}
}

var partner = domain.Actor{ID: "partner-1", Role: domain.RolePartner}

func TestTrustHandler_Deposit_Success(t *testing.T) {
	var captured usecase.RecordTrustEntryInput
	handler := NewTrustHandler(&trustServiceStub{
		depositFn: func(ctx context.Context, input usecase.RecordTrustEntryInput) (*domain.TrustEntry, error) {
			captured = input
			return &domain.TrustEntry{
				ID:              "entry-1",
				MatterID:        input.MatterID,
				Type:            domain.EntryTypeDeposit,
				Amount:          input.Amount,
				Balance:         decimal.RequireFromString("1500"),
				Description:     input.Description,
				TransactionDate: input.TransactionDate,
				CreatedBy:       input.ActorID,
				CreatedAt:       time.Now(),
			}, nil
		},
	})

	body := map[string]any{
		"amount":          "1500",
		"description":     "Initial retainer",
		"transactionDate": "2026-01-15",
	}
	req := newRequest(http.MethodPost, "/api/v1/matters/matter-1/trust/deposit", body, map[string]string{"id": "matter-1"}, partner)
	rec := httptest.NewRecorder()

	handler.Deposit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.MatterID != "matter-1" || captured.ActorID != "partner-1" || !captured.Amount.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var entry dto.TrustEntryResponse
	env := decodeEnvelope(t, rec, &entry)
	if !env.Success || entry.Balance != "1500.00" || entry.Amount != "1500.00" || entry.TransactionType != domain.EntryTypeDeposit {
		t.Fatalf("unexpected response: %+v %+v", env, entry)
	}
}

func TestTrustHandler_Withdraw_InsufficientFunds(t *testing.T) {
	handler := NewTrustHandler(&trustServiceStub{
		withdrawFn: func(ctx context.Context, input usecase.RecordTrustEntryInput) (*domain.TrustEntry, error) {
			return nil, &domain.InsufficientFundsError{
				Available: decimal.RequireFromString("1500"),
				Requested: input.Amount,
			}
		},
	})

	body := map[string]any{"amount": "2000", "description": "Court fees", "transactionDate": "2026-01-20"}
	req := newRequest(http.MethodPost, "/", body, map[string]string{"id": "matter-1"}, partner)
	rec := httptest.NewRecorder()

	handler.Withdraw(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	env := decodeEnvelope(t, rec, nil)
	want := "insufficient trust funds: available K1500.00, requested K2000.00"
	if env.Success || env.Message != want {
		t.Fatalf("expected message %q, got %+v", want, env)
	}
}

func TestTrustHandler_Deposit_Errors(t *testing.T) {
	validation := &domain.ValidationError{}
	validation.Add("amount", domain.ErrInvalidAmount.Error())

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantFields int
	}{
		{"unknown matter", fmt.Errorf("lock matter: %w", domain.ErrMatterNotFound), http.StatusNotFound, 0},
		{"validation", validation, http.StatusBadRequest, 1},
		{"internal", fmt.Errorf("commit: connection reset"), http.StatusInternalServerError, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewTrustHandler(&trustServiceStub{
				depositFn: func(ctx context.Context, input usecase.RecordTrustEntryInput) (*domain.TrustEntry, error) {
					return nil, tt.err
				},
			})

			req := newRequest(http.MethodPost, "/", map[string]any{"amount": "10"}, map[string]string{"id": "m"}, partner)
			rec := httptest.NewRecorder()
			handler.Deposit(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if env := decodeEnvelope(t, rec, nil); len(env.Errors) != tt.wantFields {
				t.Fatalf("expected %d field errors, got %+v", tt.wantFields, env.Errors)
			}
		})
	}
}

func TestTrustHandler_Deposit_InvalidJSON(t *testing.T) {
	handler := NewTrustHandler(&trustServiceStub{
		depositFn: func(ctx context.Context, input usecase.RecordTrustEntryInput) (*domain.TrustEntry, error) {
			t.Fatal("RecordDeposit should not be called for invalid payload")
			return nil, nil
		},
	})

	req := newRequest(http.MethodPost, "/", "{invalid json", map[string]string{"id": "m"}, partner)
	rec := httptest.NewRecorder()
	handler.Deposit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTrustHandler_Balance(t *testing.T) {
	latest := &domain.TrustEntry{ID: "e-2", MatterID: "m", Type: domain.EntryTypeWithdrawal, Amount: decimal.NewFromInt(500), Balance: decimal.NewFromInt(1000)}
	handler := NewTrustHandler(&trustServiceStub{
		balanceFn: func(ctx context.Context, matterID string) (domain.TrustAccount, error) {
			return domain.NewTrustAccount(matterID, latest), nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Balance(rec, newRequest(http.MethodGet, "/", nil, map[string]string{"id": "m"}, partner))

	var balance dto.TrustBalanceResponse
	decodeEnvelope(t, rec, &balance)
	if rec.Code != http.StatusOK || balance.Balance != "1000.00" || balance.LatestEntry == nil || balance.LatestEntry.ID != "e-2" {
		t.Fatalf("unexpected balance response %d: %+v", rec.Code, balance)
	}
}

func TestTrustHandler_Entries_PassesPaging(t *testing.T) {
	var gotLimit, gotOffset int
	handler := NewTrustHandler(&trustServiceStub{
		entriesFn: func(ctx context.Context, matterID string, limit, offset int) ([]*domain.TrustEntry, error) {
			gotLimit, gotOffset = limit, offset
			return []*domain.TrustEntry{}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Entries(rec, newRequest(http.MethodGet, "/?limit=10&offset=20", nil, map[string]string{"id": "m"}, partner))

	if rec.Code != http.StatusOK || gotLimit != 10 || gotOffset != 20 {
		t.Fatalf("unexpected paging: code=%d limit=%d offset=%d", rec.Code, gotLimit, gotOffset)
	}
}

func TestTrustHandler_Reconcile(t *testing.T) {
	handler := NewTrustHandler(&trustServiceStub{
		reconcileFn: func(ctx context.Context, matterID string) (*usecase.TrustReconciliation, error) {
			return &usecase.TrustReconciliation{
				MatterID:          matterID,
				Consistent:        true,
				EntryCount:        3,
				TotalDeposits:     decimal.NewFromInt(2000),
				TotalWithdrawals:  decimal.NewFromInt(500),
				CalculatedBalance: decimal.NewFromInt(1500),
				RecordedBalance:   decimal.NewFromInt(1500),
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Reconcile(rec, newRequest(http.MethodGet, "/", nil, map[string]string{"id": "m"}, partner))

	var result dto.ReconciliationResponse
	decodeEnvelope(t, rec, &result)
	if !result.Consistent || result.RecordedBalance != "1500.00" || result.Break != nil {
		t.Fatalf("unexpected reconciliation: %+v", result)
	}
}

func TestTrustHandler_Deposit_MalformedValuesReportFields(t *testing.T) {
	handler := NewTrustHandler(&trustServiceStub{
		depositFn: func(ctx context.Context, input usecase.RecordTrustEntryInput) (*domain.TrustEntry, error) {
			t.Fatal("RecordDeposit should not be called for undecodable values")
			return nil, nil
		},
	})

	body := `{"amount":"12,50","description":"Retainer","transactionDate":"15/01/2026"}`
	req := newRequest(http.MethodPost, "/", body, map[string]string{"id": "m"}, partner)
	rec := httptest.NewRecorder()
	handler.Deposit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec, nil)
	got := map[string]string{}
	for _, f := range env.Errors {
		got[f.Field] = f.Message
	}
	if got["amount"] != "must be a decimal number" || got["transactionDate"] != "must be a date (YYYY-MM-DD)" {
		t.Fatalf("unexpected field errors: %+v", env.Errors)
	}
	if _, ok := got["description"]; ok {
		t.Fatalf("description decoded fine and must not be reported: %+v", env.Errors)
	}
}
