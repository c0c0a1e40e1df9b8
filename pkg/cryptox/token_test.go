package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.Len(t, token, 43)

	other, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.NotEqual(t, token, other)

	short, err := GenerateToken(TokenSize128)
	require.NoError(t, err)
	require.Len(t, short, 22)
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		token, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}

func TestFingerprintToken(t *testing.T) {
	fp := FingerprintToken("reset-token")
	require.Len(t, fp, 43)
	require.Equal(t, fp, FingerprintToken("reset-token"))
	require.NotEqual(t, fp, FingerprintToken("reset-token2"))
	require.NotContains(t, fp, "reset-token")
}

func TestEqualSecret(t *testing.T) {
	require.True(t, EqualSecret("bootstrap", "bootstrap"))
	require.False(t, EqualSecret("bootstrap", "Bootstrap"))
	require.False(t, EqualSecret("", ""))
	require.False(t, EqualSecret("anything", ""))
}
