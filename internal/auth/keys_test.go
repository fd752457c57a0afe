package auth

import (
	"strings"
	"testing"
)

func TestGenerateAndParseAPIKey(t *testing.T) {
	id, raw, hash, err := GenerateAPIKey("test")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if id == "" || raw == "" {
		t.Fatalf("expected non-empty id and raw")
	}
	if !strings.HasPrefix(raw, "rg_test_") {
		t.Fatalf("unexpected prefix: %s", raw)
	}
	env, parsedID, secret, ok := ParseAPIKey(raw)
	if !ok {
		t.Fatalf("parse failed")
	}
	if env != "test" || parsedID != id || secret == "" {
		t.Fatalf("bad parse: env=%s id=%s secret=%s", env, parsedID, secret)
	}
	if !VerifySecret(hash, secret) {
		t.Fatal("expected secret to verify against its hash")
	}
	if VerifySecret(hash, "wrong") {
		t.Fatal("expected wrong secret to fail verification")
	}
}

func TestParseAPIKey_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "wrong prefix", raw: "sc_test_abc_def"},
		{name: "too few parts", raw: "rg_test_abc"},
		{name: "too many parts", raw: "rg_test_abc_def_ghi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, ok := ParseAPIKey(tt.raw); ok {
				t.Errorf("expected parse to reject %q", tt.raw)
			}
		})
	}
}

func TestSecretAuthorizer(t *testing.T) {
	authorize := SecretAuthorizer("s3cret")
	if !authorize("s3cret") {
		t.Error("expected configured secret to authorize")
	}
	if authorize("wrong") {
		t.Error("expected wrong secret to be refused")
	}
	if SecretAuthorizer("")("") {
		t.Error("expected empty secret to authorize nothing")
	}
}

func TestKeyAuthorizer(t *testing.T) {
	id, raw, hash, err := GenerateAPIKey("test")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	authorize := KeyAuthorizer(id, hash)

	if !authorize(raw) {
		t.Error("expected issued key to authorize")
	}
	if authorize("rg_test_" + id + "_wrongsecret") {
		t.Error("expected wrong secret to be refused")
	}
	if authorize("not-a-key") {
		t.Error("expected malformed key to be refused")
	}

	_, otherRaw, _, err := GenerateAPIKey("test")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if authorize(otherRaw) {
		t.Error("expected key with different ID to be refused")
	}
}

func TestGenerateAPIKey_TokensSplitCleanly(t *testing.T) {
	// id and secret must never contain the underscore delimiter, or the key
	// format stops round-tripping through ParseAPIKey.
	for i := 0; i < 50; i++ {
		id, raw, _, err := GenerateAPIKey("test")
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if strings.Contains(id, "_") {
			t.Fatalf("id contains delimiter: %s", id)
		}
		if strings.Count(raw, "_") != 3 {
			t.Fatalf("expected exactly 3 delimiters in %s", raw)
		}
	}
}
