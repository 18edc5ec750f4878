package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRequestStatus_CanTransitionTo(t *testing.T) {
	if !StatusPending.CanTransitionTo(StatusAnswered) {
		t.Error("pending -> answered must be allowed")
	}
	if StatusAnswered.CanTransitionTo(StatusPending) {
		t.Error("answered is terminal")
	}
	if StatusAnswered.CanTransitionTo(StatusAnswered) {
		t.Error("answered -> answered must be rejected")
	}
	if StatusPending.CanTransitionTo(StatusPending) {
		t.Error("pending -> pending is not a transition")
	}
}

func TestNewRequest_IsPendingWithoutAnswer(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("BRT", -3*3600))
	r := NewRequest("id-1", "owner-1", "desc", "", now)

	if r.Status != StatusPending || r.Answer != nil {
		t.Fatalf("unexpected request: %+v", r)
	}
	if r.CreatedAt.Location() != time.UTC || !r.CreatedAt.Equal(now) {
		t.Fatalf("created_at must be the same instant in UTC: %v", r.CreatedAt)
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestApplyAnswer_WriteOnce(t *testing.T) {
	r := NewRequest("id-1", "owner-1", "desc", "", time.Now())
	first := Answer{Response: "Plano Premium", MonthlyValue: decimal.RequireFromString("79"), AnsweredAt: time.Now(), AnsweredBy: "admin"}

	if err := r.ApplyAnswer(first); err != nil {
		t.Fatalf("ApplyAnswer: %v", err)
	}
	if !r.IsAnswered() {
		t.Fatal("expected answered")
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	second := Answer{Response: "outra", MonthlyValue: decimal.RequireFromString("1"), AnsweredAt: time.Now()}
	if err := r.ApplyAnswer(second); !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("expected ErrAlreadyAnswered, got %v", err)
	}
	if r.Answer.Response != "Plano Premium" {
		t.Fatalf("answer overwritten: %+v", r.Answer)
	}
}

func TestRequest_ValidateInconsistent(t *testing.T) {
	pendingWithAnswer := NewRequest("a", "o", "d", "", time.Now())
	pendingWithAnswer.Answer = &Answer{AnsweredAt: time.Now()}

	answeredWithout := NewRequest("b", "o", "d", "", time.Now())
	answeredWithout.Status = StatusAnswered

	negative := NewRequest("c", "o", "d", "", time.Now())
	_ = negative.ApplyAnswer(Answer{MonthlyValue: decimal.NewFromInt(-1), AnsweredAt: time.Now()})

	for _, r := range []*Request{pendingWithAnswer, answeredWithout, negative} {
		if err := r.Validate(); !errors.Is(err, ErrInconsistentAnswer) {
			t.Errorf("request %s: expected ErrInconsistentAnswer, got %v", r.ID, err)
		}
	}
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := StorageFailure("Não foi possível salvar", cause)

	if KindOf(err) != KindStorage {
		t.Fatalf("KindOf = %s", KindOf(err))
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause not unwrapped")
	}
	if err.Display() != "Não foi possível salvar: dial tcp: refused" {
		t.Fatalf("Display = %q", err.Display())
	}

	forbidden := Forbidden("nope")
	if forbidden.Display() != "nope" || KindOf(forbidden) != KindForbidden {
		t.Fatalf("unexpected forbidden error: %+v", forbidden)
	}
	if KindOf(cause) != "" {
		t.Fatal("plain errors have no kind")
	}
}
