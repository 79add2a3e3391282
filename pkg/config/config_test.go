package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNPassthrough(t *testing.T) {
	db := DBConfig{DSN: "postgres://app:secret@db:5432/huddlebuy"}
	if err := db.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.DSN != "postgres://app:secret@db:5432/huddlebuy" {
		t.Fatalf("DSN should be untouched, got %s", db.DSN)
	}
}

func TestEnsureDSNFromLegacyParts(t *testing.T) {
	db := DBConfig{
		LegacyHost:     "localhost",
		LegacyPort:     5432,
		LegacyUser:     "app",
		LegacyPassword: "secret",
		LegacyName:     "huddlebuy",
		LegacySSLMode:  "disable",
	}
	if err := db.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, fragment := range []string{"postgres://", "app:secret@", "localhost:5432", "/huddlebuy", "sslmode=disable"} {
		if !strings.Contains(db.DSN, fragment) {
			t.Fatalf("DSN %q missing %q", db.DSN, fragment)
		}
	}
}

func TestEnsureDSNMissingParts(t *testing.T) {
	db := DBConfig{LegacyHost: "localhost"}
	err := db.ensureDSN()
	if err == nil {
		t.Fatal("expected error when user/name missing")
	}
	if !strings.Contains(err.Error(), EnvDBUser) || !strings.Contains(err.Error(), EnvDBName) {
		t.Fatalf("error should name the missing vars, got %v", err)
	}
}

func TestAppEnvHelpers(t *testing.T) {
	app := AppConfig{Env: "DEV"}
	if !app.IsDev() || app.IsProd() {
		t.Fatal("expected dev environment")
	}
	app.Env = "prod"
	if app.IsDev() || !app.IsProd() {
		t.Fatal("expected prod environment")
	}
}
