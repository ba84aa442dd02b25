package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLite(t *testing.T) {
	// Arrange
	ctx := context.Background()
	lite, err := OpenLite(ctx, ":memory:")
	require.NoError(t, err)
	defer lite.Close()

	// Act
	require.NoError(t, lite.InsertRows(ctx, sampleRows[:2]))
	require.NoError(t, lite.InsertRows(ctx, sampleRows[2:]))
	rows, err := lite.ListRows(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, sampleRows, rows)
}

func TestLiteReplaceRowsPersists(t *testing.T) {
	// Arrange
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "requirements.db")
	lite, err := OpenLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, lite.InsertRows(ctx, sampleRows))

	// Act
	require.NoError(t, lite.ReplaceRows(ctx, sampleRows[1:]))
	require.NoError(t, lite.Close())

	// Assert
	reopened, err := OpenLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()
	rows, err := reopened.ListRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleRows[1:], rows)
}

func TestOptionalColumns(t *testing.T) {
	assert.Nil(t, FormatOptionalGroup(NoGroup))
	assert.Equal(t, 3, *FormatOptionalGroup(3))
	assert.Nil(t, FormatOptionalCondition(ConditionNone))
	assert.Equal(t, "or", *FormatOptionalCondition(ConditionOr))
}
