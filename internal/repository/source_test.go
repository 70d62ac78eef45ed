package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/netpath/internal/config"
)

func TestOpen_CSV(t *testing.T) {
	src, err := Open(context.Background(), config.GraphConfig{Source: config.SourceCSV, NodesPath: "n.csv", EdgesPath: "e.csv"})
	require.NoError(t, err)

	fb, ok := src.(FileBacked)
	require.True(t, ok)
	assert.Equal(t, []string{"n.csv", "e.csv"}, fb.Files())
}

func TestOpen_Unknown(t *testing.T) {
	_, err := Open(context.Background(), config.GraphConfig{Source: "parquet"})
	assert.ErrorIs(t, err, ErrUnknownSource)
}
