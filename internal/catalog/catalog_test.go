package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveIDPriority(t *testing.T) {
	assert.Equal(t, "P-9", ResolveID(map[string]string{
		"product_id": "P-9", "id": "row-3", "name": "Mouse",
	}))
	assert.Equal(t, "row-3", ResolveID(map[string]string{
		"id": "row-3", "name": "Mouse",
	}))
	assert.Equal(t, "Mouse", ResolveID(map[string]string{
		"name": "Mouse",
	}))
}

func TestResolveIDGeneratesSurrogate(t *testing.T) {
	id := ResolveID(map[string]string{"description": "no identifying fields"})

	_, err := uuid.Parse(id)
	require.NoError(t, err)

	// Surrogates must not collide across rows.
	assert.NotEqual(t, id, ResolveID(map[string]string{}))
}

func TestDocumentIdentity(t *testing.T) {
	assert.Equal(t, "P-1", Document{ID: "P-1", Name: "Mouse"}.Identity())
	assert.Equal(t, "Mouse", Document{Name: "Mouse"}.Identity())
	assert.Equal(t, "", Document{}.Identity())
}
