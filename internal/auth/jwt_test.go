package auth

import (
	"context"
	"testing"
	"time"

	"cylinderManagement/internal/testutil"
	"cylinderManagement/models"
)

const testSecret = "test-secret"

func TestIssueAndParse(t *testing.T) {
	u := &models.User{Email: "admin@example.com", UserType: models.UserTypeAdmin}
	tok, err := IssueJWT(testSecret, u, time.Hour)
	if err != nil {
		t.Fatalf("IssueJWT: %v", err)
	}

	p, err := parseJWT(tok, testSecret)
	if err != nil {
		t.Fatalf("parseJWT: %v", err)
	}
	if p.Email != "admin@example.com" || p.Kind != "admin" {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestIssueJWTErrors(t *testing.T) {
	u := &models.User{Email: "a@b.c", UserType: models.UserTypeFiller}
	if _, err := IssueJWT("", u, time.Hour); err == nil {
		t.Fatal("expected error with empty secret")
	}
	if _, err := IssueJWT(testSecret, nil, time.Hour); err == nil {
		t.Fatal("expected error with nil user")
	}
}

func TestParseJWTRejectsBadSecret(t *testing.T) {
	u := &models.User{Email: "a@b.c", UserType: models.UserTypeDispatcher}
	tok, err := IssueJWT(testSecret, u, time.Hour)
	if err != nil {
		t.Fatalf("IssueJWT: %v", err)
	}
	if _, err := parseJWT(tok, "other-secret"); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseJWTRejectsExpired(t *testing.T) {
	u := &models.User{Email: "a@b.c", UserType: models.UserTypeAdmin}
	tok, err := IssueJWT(testSecret, u, -time.Minute)
	if err != nil {
		t.Fatalf("IssueJWT: %v", err)
	}
	if _, err := parseJWT(tok, testSecret); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParseFromMD(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, "filler@example.com", "filler")
	ctx := testutil.CtxWithBearer(context.Background(), tok)

	p, err := ParseFromMD(ctx, testSecret)
	if err != nil {
		t.Fatalf("ParseFromMD: %v", err)
	}
	if p.Email != "filler@example.com" || p.Kind != "filler" {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestParseFromMDMissingHeader(t *testing.T) {
	if _, err := ParseFromMD(context.Background(), testSecret); err == nil {
		t.Fatal("expected error without metadata")
	}
}

func TestPrincipalContextRoundTrip(t *testing.T) {
	want := &Principal{Email: "x@y.z", Kind: "dispatcher"}
	ctx := WithPrincipal(context.Background(), want)
	got, ok := FromContext(ctx)
	if !ok || got != want {
		t.Fatalf("FromContext = %+v, %v", got, ok)
	}
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("expected no principal in fresh context")
	}
}
