package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestTokenFileRoundTrip(t *testing.T) {
	t.Setenv("TADA_HOME", t.TempDir())
	t.Setenv(envToken, "")

	ti, err := GetToken()
	if err != nil || ti != nil {
		t.Fatalf("fresh home: %+v, %v", ti, err)
	}

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signed(t, jwt.MapClaims{"user_id": 7, "exp": exp.Unix()})
	if err := SetToken("Bearer "+token, nil); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	ti, err = GetToken()
	if err != nil || ti == nil {
		t.Fatalf("GetToken: %+v, %v", ti, err)
	}
	if ti.Token != token || ti.Source != SourceFile {
		t.Errorf("token info = %+v", ti)
	}
	if ti.ExpiresAt == nil || !ti.ExpiresAt.Equal(exp) {
		t.Errorf("expires = %v, want %v", ti.ExpiresAt, exp)
	}
	if ti.Expired(time.Now()) {
		t.Error("fresh token reported expired")
	}

	if err := DeleteToken(); err != nil {
		t.Fatal(err)
	}
	if ti, _ := GetToken(); ti != nil {
		t.Errorf("after logout: %+v", ti)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("TADA_HOME", t.TempDir())
	if err := SetToken("from-file", nil); err != nil {
		t.Fatal(err)
	}
	t.Setenv(envToken, "bearer from-env")

	ti, err := GetToken()
	if err != nil {
		t.Fatal(err)
	}
	if ti.Token != "from-env" || ti.Source != SourceEnv || ti.ExpiresAt != nil {
		t.Errorf("token info = %+v", ti)
	}
}

func TestSetTokenRejectsBlank(t *testing.T) {
	t.Setenv("TADA_HOME", t.TempDir())
	if err := SetToken("  Bearer  ", nil); err != ErrEmptyToken {
		t.Fatalf("err = %v", err)
	}
}

func TestClaims(t *testing.T) {
	claims, err := Claims(signed(t, jwt.MapClaims{"user_id": 42}))
	if err != nil {
		t.Fatal(err)
	}
	if claims["user_id"].(float64) != 42 {
		t.Errorf("claims = %v", claims)
	}
	if _, err := Claims("opaque-token"); err == nil {
		t.Error("opaque token decoded as JWT")
	}
}
