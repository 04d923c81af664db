package service

import (
	"testing"

	"habitloop_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAssembleComments(t *testing.T) {
	alice := model.User{Name: "Alice"}
	bob := model.User{Name: "Bob"}

	comments := []model.FeedComment{
		{UUIDBase: model.UUIDBase{ID: "c1"}, AuthorID: 1, Author: alice, Content: "坚持住！"},
		{UUIDBase: model.UUIDBase{ID: "c2"}, AuthorID: 2, Author: bob, Content: "回复 c1", ParentID: strPtr("c1"), ReplyToUser: &alice},
		{UUIDBase: model.UUIDBase{ID: "c3"}, AuthorID: 2, Author: bob, Content: "另一条顶层评论"},
	}

	tree := assembleComments(comments, map[string]bool{"c2": true})
	require.Len(t, tree, 2)

	assert.Equal(t, "c1", tree[0].ID)
	assert.Equal(t, "Alice", tree[0].Author)
	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, "c2", tree[0].Replies[0].ID)
	assert.Equal(t, "Alice", tree[0].Replies[0].ToUser)
	assert.True(t, tree[0].Replies[0].IsLiked)

	assert.Equal(t, "c3", tree[1].ID)
	assert.Empty(t, tree[1].Replies)
}

func TestAssembleCommentsOrphanReplyDropped(t *testing.T) {
	comments := []model.FeedComment{
		{UUIDBase: model.UUIDBase{ID: "c1"}, Content: "孤儿回复", ParentID: strPtr("gone")},
	}

	tree := assembleComments(comments, nil)
	assert.Empty(t, tree)
}
