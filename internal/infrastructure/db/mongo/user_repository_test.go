package mongo

import (
	"testing"
	"time"

	"github.com/cts/user-auth-service/internal/core/domain"
)

func TestMongoUserMapping_RoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	in := &domain.User{
		ID:               "UID1234",
		FirstName:        "Rajdeep",
		LastName:         "Ganguly",
		Email:            "RajdeepGanguly@gmail.com",
		PasswordHash:     "hash",
		Role:             domain.RoleCustomer,
		SecretQuestionID: 1,
		SecretAnswerHash: "answer-hash",
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	doc := toMongoUser(in)
	if doc.EmailKey != "rajdeepganguly@gmail.com" {
		t.Fatalf("expected normalised email key, got %q", doc.EmailKey)
	}
	if doc.Email != in.Email {
		t.Fatalf("email case must be preserved, got %q", doc.Email)
	}

	out := fromMongoUser(doc)
	if out.ID != in.ID || out.Role != in.Role || out.SecretQuestionID != 1 {
		t.Fatalf("unexpected user: %+v", out)
	}
	if !out.CreatedAt.Equal(now) || !out.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps not preserved: %v %v", out.CreatedAt, out.UpdatedAt)
	}
	if out.PasswordHash != "hash" || out.SecretAnswerHash != "answer-hash" {
		t.Fatalf("hashes not preserved: %+v", out)
	}
}

func TestUnixToTime_Zero(t *testing.T) {
	if !unixToTime(0).IsZero() {
		t.Fatalf("expected zero time for 0")
	}
}
