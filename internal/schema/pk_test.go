package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpwg/RebrickableDatabase/pkg/brix"
)

func testCols(names ...string) []brix.Column {
	cols := make([]brix.Column, len(names))
	for i, n := range names {
		cols[i] = brix.Column{Name: n, SanitizedName: SanitizeName(n), Position: i}
	}
	return cols
}

func TestDetectPrimaryKey_UniqueColumn(t *testing.T) {
	path := writeCSV(t, "id,name\n1,Ada\n2,Grace\n3,Ada\n")

	pk, detected, err := DetectPrimaryKey(path, testCols("id", "name"), 1000)
	require.NoError(t, err)
	assert.True(t, detected)
	assert.Equal(t, "id", pk)
}

func TestDetectPrimaryKey_RepeatedValueEliminates(t *testing.T) {
	path := writeCSV(t, "code,name\nA,x\nA,y\nB,z\n")

	// code repeats, name does not
	pk, detected, err := DetectPrimaryKey(path, testCols("code", "name"), 1000)
	require.NoError(t, err)
	assert.True(t, detected)
	assert.Equal(t, "name", pk)
}

func TestDetectPrimaryKey_EmptyValueEliminates(t *testing.T) {
	path := writeCSV(t, "id,name\n1,Ada\n,Grace\n3,Hopper\n")

	pk, detected, err := DetectPrimaryKey(path, testCols("id", "name"), 1000)
	require.NoError(t, err)
	assert.True(t, detected)
	assert.Equal(t, "name", pk, "column with an empty value is never selected")
}

func TestDetectPrimaryKey_MissingTrailingFieldCountsAsEmpty(t *testing.T) {
	path := writeCSV(t, "id,name\n1,Ada\n2\n")

	pk, detected, err := DetectPrimaryKey(path, testCols("id", "name"), 1000)
	require.NoError(t, err)
	assert.True(t, detected)
	assert.Equal(t, "id", pk)
}

func TestDetectPrimaryKey_NoSurvivors(t *testing.T) {
	path := writeCSV(t, "a,b\n1,x\n1,x\n")

	pk, detected, err := DetectPrimaryKey(path, testCols("a", "b"), 1000)
	require.NoError(t, err)
	assert.False(t, detected)
	assert.Empty(t, pk)
}

func TestDetectPrimaryKey_PrefersIDNaming(t *testing.T) {
	// Both columns are unique; part_id wins over the earlier column
	// because of its _id suffix.
	path := writeCSV(t, "sku,part_id\nA1,1\nB2,2\n")

	pk, detected, err := DetectPrimaryKey(path, testCols("sku", "part_id"), 1000)
	require.NoError(t, err)
	assert.True(t, detected)
	assert.Equal(t, "part_id", pk)
}

func TestDetectPrimaryKey_FirstSurvivorWhenNoIDNaming(t *testing.T) {
	path := writeCSV(t, "sku,label\nA1,x1\nB2,x2\n")

	pk, detected, err := DetectPrimaryKey(path, testCols("sku", "label"), 1000)
	require.NoError(t, err)
	assert.True(t, detected)
	assert.Equal(t, "sku", pk)
}

func TestDetectPrimaryKey_RowLimitExceeded(t *testing.T) {
	path := writeCSV(t, "id\n1\n2\n3\n4\n5\n")

	_, detected, err := DetectPrimaryKey(path, testCols("id"), 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRowLimitExceeded), "expected ErrRowLimitExceeded, got: %v", err)
	assert.False(t, detected)
}

func TestDetectPrimaryKey_EmptyFile(t *testing.T) {
	path := writeCSV(t, "")

	pk, detected, err := DetectPrimaryKey(path, nil, 1000)
	require.NoError(t, err)
	assert.False(t, detected)
	assert.Empty(t, pk)
}

func TestDetectPrimaryKey_HeaderOnly(t *testing.T) {
	path := writeCSV(t, "id,name\n")

	_, detected, err := DetectPrimaryKey(path, testCols("id", "name"), 1000)
	require.NoError(t, err)
	assert.False(t, detected, "zero data rows cannot confirm uniqueness")
}
