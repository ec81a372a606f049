package security

import (
	"strings"
	"testing"

	"github.com/mrbebidas/catalog-backend/pkg/config"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := testPasswordConfig()

	encoded, err := HashPassword("s3nha-segura", cfg)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format %q", encoded)
	}

	ok, err := VerifyPassword("s3nha-segura", encoded)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !ok {
		t.Fatal("expected password to verify")
	}

	ok, err = VerifyPassword("senha-errada", encoded)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashPasswordEmpty(t *testing.T) {
	if _, err := HashPassword("", testPasswordConfig()); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPasswordMalformed(t *testing.T) {
	cases := []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$bogus$c2FsdA$aGFzaA",
	}
	for _, encoded := range cases {
		if _, err := VerifyPassword("anything", encoded); err == nil {
			t.Fatalf("expected ErrInvalidHash for %q", encoded)
		}
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	cfg := testPasswordConfig()
	first, err := HashPassword("mesma-senha", cfg)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	second, err := HashPassword("mesma-senha", cfg)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if first == second {
		t.Fatal("hashes of the same password must differ by salt")
	}
}
