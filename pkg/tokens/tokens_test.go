package tokens

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssue_VerifyRoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewService(testSecret, false)

	for _, id := range []int64{1, 42, 1 << 40} {
		tok, err := svc.Issue(id)
		require.NoError(t, err)
		require.Len(t, strings.Split(tok, "."), 3)

		got, err := svc.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestIssue_PayloadShape(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	svc := &Service{Secret: testSecret, Now: fixedClock(now)}

	tok, err := svc.Issue(7)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	header, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var h map[string]any
	require.NoError(t, json.Unmarshal(header, &h))
	assert.Equal(t, "HS256", h["alg"])
	assert.Equal(t, "JWT", h["typ"])

	var p map[string]any
	require.NoError(t, json.Unmarshal(payload, &p))
	assert.EqualValues(t, 7, p["sub"])
	assert.EqualValues(t, now.Unix(), p["iat"])
	assert.EqualValues(t, now.Add(TTL).Unix(), p["exp"])
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	svc := NewService(testSecret, false)
	noSub := base64.RawURLEncoding.EncodeToString([]byte(`{"iat":1}`))
	notJSON := base64.RawURLEncoding.EncodeToString([]byte(`not json`))
	stringSub := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"abc"}`))
	fractionSub := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":1.5}`))
	boolSub := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":true}`))

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "one segment", token: "abc"},
		{name: "two segments", token: "a.b"},
		{name: "four segments", token: "a.b.c.d"},
		{name: "payload not base64", token: "h.!!!.s"},
		{name: "payload not json", token: "h." + notJSON + ".s"},
		{name: "payload without sub", token: "h." + noSub + ".s"},
		{name: "payload with non numeric sub", token: "h." + stringSub + ".s"},
		{name: "payload with fractional sub", token: "h." + fractionSub + ".s"},
		{name: "payload with boolean sub", token: "h." + boolSub + ".s"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Verify(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerify_IgnoresSignatureAndExpiry(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-48 * time.Hour)
	issuer := &Service{Secret: []byte("some-other-secret"), Now: fixedClock(past)}
	tok, err := issuer.Issue(9)
	require.NoError(t, err)

	svc := NewService(testSecret, false)
	got, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(9), got)

	parts := strings.Split(tok, ".")
	got, err = svc.Verify(parts[0] + "." + parts[1] + ".forged")
	require.NoError(t, err)
	assert.Equal(t, int64(9), got)
}

func TestVerify_AcceptsStandardBase64Payload(t *testing.T) {
	t.Parallel()

	// Token in the padded standard-base64 form older clients produced.
	legacy := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOjEsImlhdCI6MTY4MzAyNDkxMCwiZXhwIjoxNjgzMDI4NTEwfQ==.your-signature"

	got, err := NewService(testSecret, false).Verify(legacy)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestVerify_WholeNumberSubject(t *testing.T) {
	t.Parallel()

	svc := NewService(testSecret, false)

	tests := []struct {
		payload string
		want    int64
	}{
		{payload: `{"sub":1.0}`, want: 1},
		{payload: `{"sub":1e0}`, want: 1},
		{payload: `{"sub":42.000}`, want: 42},
		{payload: `{"sub":3}`, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			seg := base64.RawURLEncoding.EncodeToString([]byte(tt.payload))
			got, err := svc.Verify("h." + seg + ".s")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerify_Strict(t *testing.T) {
	t.Parallel()

	now := time.Now()
	strict := &Service{Secret: testSecret, Strict: true, Now: fixedClock(now)}

	good, err := strict.Issue(5)
	require.NoError(t, err)
	got, err := strict.Verify(good)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)

	wrongKey, err := (&Service{Secret: []byte("other"), Now: fixedClock(now)}).Issue(5)
	require.NoError(t, err)
	_, err = strict.Verify(wrongKey)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := (&Service{Secret: testSecret, Now: fixedClock(now.Add(-2 * TTL))}).Issue(5)
	require.NoError(t, err)
	_, err = strict.Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	parts := strings.Split(good, ".")
	_, err = strict.Verify(parts[0] + "." + parts[1] + ".forged")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
