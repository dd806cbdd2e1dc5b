package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityJSONKeepsOrder(t *testing.T) {
	r := &Record{RecentActivity: []Activity{
		{ActivityType: "Sold!", Price: "$1"},
		{ActivityType: "Listed", Price: "$2"},
	}}
	blob, err := r.ActivityJSON()
	require.NoError(t, err)
	assert.Equal(t, `[{"activity_type":"Sold!","price":"$1"},{"activity_type":"Listed","price":"$2"}]`, blob)

	decoded, err := DecodeActivity(blob)
	require.NoError(t, err)
	assert.Equal(t, r.RecentActivity, decoded)
}

func TestActivityJSONEmpty(t *testing.T) {
	blob, err := (&Record{}).ActivityJSON()
	require.NoError(t, err)
	assert.Equal(t, "[]", blob)

	decoded, err := DecodeActivity("")
	require.NoError(t, err)
	assert.Empty(t, decoded)

	_, err = DecodeActivity("{not json")
	assert.Error(t, err)
}

func TestRunStatusSucceeded(t *testing.T) {
	assert.True(t, RunCompleted.Succeeded())
	assert.True(t, RunExhausted.Succeeded())
	assert.False(t, RunAborted.Succeeded())
	assert.False(t, RunCancelled.Succeeded())
}
