package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(u uint) *uint { return &u }

func TestBuildTree(t *testing.T) {
	items := []Category{
		{ID: 1, Description: "Building"},
		{ID: 2, Description: "Materials", ParentID: ptr(1)},
		{ID: 3, Description: "Cement", ParentID: ptr(2)},
		{ID: 4, Description: "Admin"},
	}

	roots, err := BuildTree(items, nil)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "Building", roots[0].Description)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "Materials", roots[0].Children[0].Description)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "Cement", roots[0].Children[0].Children[0].Description)
	assert.Empty(t, roots[1].Children)

	sub, err := BuildTree(items, ptr(1))
	require.NoError(t, err)
	require.Len(t, sub, 1)
	assert.Equal(t, uint(2), sub[0].ID)

	leaf, err := BuildTree(items, ptr(3))
	require.NoError(t, err)
	assert.Empty(t, leaf)
}

func TestBuildTreeCycle(t *testing.T) {
	items := []Category{
		{ID: 1, Description: "A", ParentID: ptr(2)},
		{ID: 2, Description: "B", ParentID: ptr(1)},
	}
	_, err := BuildTree(items, ptr(1))
	require.ErrorIs(t, err, ErrCycle)

	// Unreachable loops are not visited from the roots.
	roots, err := BuildTree(items, nil)
	require.NoError(t, err)
	assert.Empty(t, roots)
}
