package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
)

func lastMatch(t *testing.T, stages []bson.D) bson.M {
	t.Helper()
	require.NotEmpty(t, stages)
	last := stages[len(stages)-1]
	require.Equal(t, "$match", last[0].Key)
	return last[0].Value.(bson.M)
}

func TestListPipelineSearchByOrderID(t *testing.T) {
	id := primitive.NewObjectID()
	pipeline, err := listPipeline(ListFilter{Search: id.Hex(), SearchBy: SearchByOrderID})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"_id": id}, lastMatch(t, pipeline))
}

func TestListPipelineSearchByEmailEscapesPattern(t *testing.T) {
	pipeline, err := listPipeline(ListFilter{Search: "a+b@x.com", SearchBy: SearchByEmail})
	require.NoError(t, err)

	match := lastMatch(t, pipeline)
	regex, ok := match["user.email"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, `a\+b@x\.com`, regex.Pattern)
	assert.Equal(t, "i", regex.Options)
}

func TestListPipelineSearchByTrxID(t *testing.T) {
	pipeline, err := listPipeline(ListFilter{Search: "TX1", SearchBy: SearchByTrxID})
	require.NoError(t, err)
	assert.Contains(t, lastMatch(t, pipeline), "payment.trxId")
}

func TestListPipelineRejectsBadInput(t *testing.T) {
	_, err := listPipeline(ListFilter{Search: "not-an-id"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = listPipeline(ListFilter{Search: "x", SearchBy: "phone"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = listPipeline(ListFilter{Status: "Lost"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestListPipelineWithoutSearchOnlyJoins(t *testing.T) {
	pipeline, err := listPipeline(ListFilter{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, "$match", pipeline[0][0].Key)
	assert.Len(t, pipeline, 5)
}
