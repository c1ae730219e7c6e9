package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "collection_p1", CollectionName("p1"))
	assert.Equal(t, "collection_p1", CollectionName("  p1  "), "surrounding whitespace is ignored")
	assert.Equal(t, "collection_", CollectionName(""))

	// same input always yields the same name, distinct inputs never collide
	assert.Equal(t, CollectionName("abc"), CollectionName("abc"))
	assert.NotEqual(t, CollectionName("abc"), CollectionName("abd"))
}
