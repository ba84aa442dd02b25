package requisite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCompile(t *testing.T) {
	// Arrange
	compiler := NewCompiler(nil, false, nil)

	// Act
	alternatives, err := compiler.Compile("STA 100", "STA 013 or STA 013Y")
	require.NoError(t, err)
	empty, err := compiler.Compile("STA 013", "")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, Or(Single("STA 013"), Single("STA 013Y")), alternatives)
	assert.Len(t, Resolve(alternatives, nil), 1)
	assert.Equal(t, None(), empty)
	assert.Empty(t, Resolve(empty, completedSet("STA 013")))
}

func TestCompileNamesTheCourse(t *testing.T) {
	// Arrange
	compiler := NewCompiler(nil, false, nil)

	// Act
	_, err := compiler.Compile("STA 108", "(STA 100 or STA 013")

	// Assert
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "STA 108", parseErr.Course)
	assert.Contains(t, err.Error(), "STA 108")
}

func TestCompileCatalogIsolatesFailures(t *testing.T) {
	// Arrange
	compiler := NewCompiler(nil, false, nil)
	texts := map[string]string{
		"STA 100": "STA 013 or STA 013Y",
		"STA 108": "STA 100 STA 013",
		"STA 141": "(STA 108",
		"STA 013": "",
	}

	// Act
	trees, err := compiler.CompileCatalog(texts)

	// Assert
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "STA 108")
	assert.Contains(t, errs[1].Error(), "STA 141")
	assert.Len(t, trees, 2)
	assert.Equal(t, None(), trees["STA 013"])
	assert.Equal(t, Or(Single("STA 013"), Single("STA 013Y")), trees["STA 100"])
}

func TestCompileCatalogDegraded(t *testing.T) {
	// Arrange
	core, logs := observer.New(zapcore.WarnLevel)
	compiler := NewCompiler(UniformPolicy{}, true, zap.New(core))
	texts := map[string]string{
		"STA 100": "STA 013, STA 013Y",
		"STA 108": "STA 100)",
	}

	// Act
	trees, err := compiler.CompileCatalog(texts)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, None(), trees["STA 108"])
	assert.Equal(t, And(Single("STA 013"), Single("STA 013Y")), trees["STA 100"])
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "STA 108", logs.All()[0].ContextMap()["course"])
}

func TestCompileLogsIgnoredWords(t *testing.T) {
	// Arrange
	core, logs := observer.New(zapcore.WarnLevel)
	compiler := NewCompiler(nil, false, zap.New(core))

	// Act
	tree, err := compiler.Compile("ECS 036B", "ECS 036A or consent of instructor.")
	require.NoError(t, err)
	clean, err := compiler.Compile("STA 100", "STA 013 or STA 013Y.")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, Single("ECS 036A"), tree)
	assert.Equal(t, Or(Single("STA 013"), Single("STA 013Y")), clean)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "ECS 036B", entry.ContextMap()["course"])
	assert.Equal(t, []interface{}{"consent", "of", "instructor"}, entry.ContextMap()["words"])
}
