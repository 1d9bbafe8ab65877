package database

import (
	"testing"

	"electionwatch/models"
)

func TestTokenPairRoundTrip(t *testing.T) {
	service := NewAuthService("test-secret")

	access, refresh, err := service.GenerateTokenPair("u1", models.RoleObserver)
	if err != nil {
		t.Fatalf("GenerateTokenPair: unexpected error: %v", err)
	}

	userID, role, err := service.ValidateToken(access)
	if err != nil {
		t.Fatalf("ValidateToken: unexpected error: %v", err)
	}
	if userID != "u1" || role != models.RoleObserver {
		t.Errorf("ValidateToken: expected u1/observer, got %s/%s", userID, role)
	}

	userID, role, err = service.ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: unexpected error: %v", err)
	}
	if userID != "u1" || role != models.RoleObserver {
		t.Errorf("ValidateRefreshToken: expected u1/observer, got %s/%s", userID, role)
	}
}

func TestTokenTypeEnforced(t *testing.T) {
	service := NewAuthService("test-secret")

	access, refresh, err := service.GenerateTokenPair("u1", models.RoleCitizen)
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := service.ValidateToken(refresh); err == nil {
		t.Error("ValidateToken accepted a refresh token")
	}
	if _, _, err := service.ValidateRefreshToken(access); err == nil {
		t.Error("ValidateRefreshToken accepted an access token")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	access, _, err := NewAuthService("secret-a").GenerateTokenPair("u1", models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := NewAuthService("secret-b").ValidateToken(access); err == nil {
		t.Error("ValidateToken accepted a token signed with a different secret")
	}

	if _, _, err := NewAuthService("secret-a").ValidateToken("not-a-token"); err == nil {
		t.Error("ValidateToken accepted garbage")
	}
}
