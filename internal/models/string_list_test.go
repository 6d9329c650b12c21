package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStringListDecodesLegacyCommaSeparatedTags(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"tags": "summer, cotton,,  sale "})
	require.NoError(t, err)

	var doc struct {
		Tags StringList `bson:"tags"`
	}
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, StringList{"summer", "cotton", "sale"}, doc.Tags)
}

func TestStringListWritesArray(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"tags": StringList{"a", "b"}})
	require.NoError(t, err)

	var back struct {
		Tags []string `bson:"tags"`
	}
	require.NoError(t, bson.Unmarshal(raw, &back))
	assert.Equal(t, []string{"a", "b"}, back.Tags)
}
