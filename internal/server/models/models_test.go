package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestBusinessPatch_IgnoresOwner(t *testing.T) {
	var p BusinessPatch
	require.NoError(t, json.Unmarshal([]byte(`{"ownerId": 9, "name": "Block 15", "zip": "97333"}`), &p))

	assert.Equal(t, Changes{
		{Column: "name", Value: "Block 15"},
		{Column: "zip", Value: "97333"},
	}, p.Changes())
}

func TestReviewPatch_IgnoresParents(t *testing.T) {
	var p ReviewPatch
	require.NoError(t, json.Unmarshal([]byte(`{"userId": 2, "businessId": 3, "stars": 0}`), &p))

	c := p.Changes()
	assert.Equal(t, Changes{{Column: "stars", Value: 0}}, c)
	assert.False(t, c.Empty())
}

func TestPhotoPatch_Empty(t *testing.T) {
	var p PhotoPatch
	require.NoError(t, json.Unmarshal([]byte(`{"userId": 2}`), &p))
	assert.True(t, p.Changes().Empty())

	p.Caption = strPtr("")
	assert.Equal(t, Changes{{Column: "caption", Value: ""}}, p.Changes())
}

func TestNewReview_Record(t *testing.T) {
	n := &NewReview{UserID: 1, BusinessID: 2, Dollars: 3, Stars: intPtr(0), Review: "ok"}
	r := n.Record()

	assert.Equal(t, &Review{UserID: 1, BusinessID: 2, Dollars: 3, Stars: 0, Review: "ok"}, r)
	assert.Equal(t, int64(1), r.Owner())
}

func TestUser_PasswordNeverSerialized(t *testing.T) {
	b, err := json.Marshal(&User{ID: 1, Name: "a", Email: "a@example.com", PasswordHash: "$2a$10$secret"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "password")
}

func TestPhoto_StorageKeyHidden(t *testing.T) {
	b, err := json.Marshal(&PhotoView{Photo: &Photo{ID: 1, StorageKey: "photos/abc"}, URL: "https://example/x"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "photos/abc")
	assert.Contains(t, string(b), `"url":"https://example/x"`)
}
