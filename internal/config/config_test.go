package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitExtensions(t *testing.T) {
	require.Equal(t, []string{".pdf", ".txt", ".zip"}, splitExtensions(".pdf, TXT ,.zip"))
	require.Empty(t, splitExtensions(" , "))
}

func TestHTTPAddress(t *testing.T) {
	require.Equal(t, ":5000", Config{AppPort: "5000"}.HTTPAddress())
	require.Equal(t, ":5000", Config{AppPort: ":5000"}.HTTPAddress())
}
