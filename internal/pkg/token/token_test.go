package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func TestDecode(t *testing.T) {
	d := NewDecoder(WithClock(func() time.Time { return now }))

	tests := []struct {
		name    string
		claims  jwt.MapClaims
		wantErr error
		want    *Claims
	}{
		{
			name:   "role and username",
			claims: jwt.MapClaims{"role": "customer", "username": "alice", "exp": now.Add(time.Hour).Unix()},
			want:   &Claims{Role: "customer", Username: "alice", ExpiresAt: now.Add(time.Hour)},
		},
		{
			name:   "no expiry",
			claims: jwt.MapClaims{"role": "employee"},
			want:   &Claims{Role: "employee"},
		},
		{
			name:   "unknown role string is still a role",
			claims: jwt.MapClaims{"role": "auditor"},
			want:   &Claims{Role: "auditor"},
		},
		{
			name:    "expired",
			claims:  jwt.MapClaims{"role": "customer", "exp": now.Add(-time.Minute).Unix()},
			wantErr: ErrExpired,
		},
		{
			name:    "missing role",
			claims:  jwt.MapClaims{"username": "bob"},
			wantErr: ErrMissingRole,
		},
		{
			name:    "numeric role",
			claims:  jwt.MapClaims{"role": 2},
			wantErr: ErrMissingRole,
		},
		{
			name:    "exp of wrong type",
			claims:  jwt.MapClaims{"role": "customer", "exp": "tomorrow"},
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Decode(sign(t, "unknown-to-client", tt.claims))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Role, got.Role)
			assert.Equal(t, tt.want.Username, got.Username)
			assert.True(t, tt.want.ExpiresAt.Equal(got.ExpiresAt))
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	d := NewDecoder()
	for _, raw := range []string{"", "not-a-token", "a.b.c", "...."} {
		got, err := d.Decode(raw)
		assert.ErrorIs(t, err, ErrMalformed, raw)
		assert.Nil(t, got)
	}
}

func TestDecode_WithSecret(t *testing.T) {
	d := NewDecoder(WithSecret("shared"), WithClock(func() time.Time { return now }))

	claims, err := d.Decode(sign(t, "shared", jwt.MapClaims{"role": "provider"}))
	require.NoError(t, err)
	assert.Equal(t, "provider", claims.Role)

	_, err = d.Decode(sign(t, "other", jwt.MapClaims{"role": "provider"}))
	assert.ErrorIs(t, err, ErrSignature)

	_, err = d.Decode("garbage")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("token-a")
	assert.Len(t, a, 12)
	assert.Equal(t, a, Fingerprint("token-a"))
	assert.NotEqual(t, a, Fingerprint("token-b"))
}
