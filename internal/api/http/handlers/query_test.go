package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClampPageSize(t *testing.T) {
	require.Equal(t, 20, clampPageSize(20))
	require.Equal(t, maxPageSize, clampPageSize(maxPageSize))
	require.Equal(t, maxPageSize, clampPageSize(maxPageSize+1))
	require.Equal(t, maxPageSize, clampPageSize(1000000))
}

func TestParseInt(t *testing.T) {
	require.Equal(t, 7, parseInt("7", 20))
	require.Equal(t, 20, parseInt("", 20))
	require.Equal(t, 20, parseInt("abc", 20))
	require.Equal(t, 20, parseInt("-5", 20))
	require.Equal(t, 20, parseInt("0", 20))
}
