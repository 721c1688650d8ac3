package handlers

import (
	"github.com/cssocial/desk/internal/helpers"
	"github.com/cssocial/desk/internal/interact"
	"github.com/cssocial/desk/internal/preview"
	"github.com/cssocial/desk/internal/remote"
)

type PostCard struct {
	remote.Post
	Liked      bool
	LikesCount int
	Pinned     bool
	IsOwn      bool
	When       string
	Preview    *preview.Card
}

type UserCard struct {
	remote.User
	Relation interact.Relation
	IsSelf   bool
}

// postCard merges server post state with the viewer's local state.
// Like state comes from the optimistic layer when it has an entry, so
// a just-toggled like renders correctly before the next feed fetch.
func (h *Handler) postCard(sess *interact.Session, post remote.Post) PostCard {
	card := PostCard{
		Post:       post,
		Liked:      post.Liked,
		LikesCount: post.LikesCount,
		When:       helpers.TimeAgo(post.CreatedAt),
	}
	if sess != nil {
		if state, ok := sess.Likes.Get(post.ID); ok {
			card.Liked = state.Liked
			card.LikesCount = state.Count
		}
		card.Pinned = sess.IsPinned(post.ID)
		card.IsOwn = post.User.ID == sess.Viewer().ID
	}
	return card
}

func (h *Handler) userCard(sess *interact.Session, user remote.User) UserCard {
	card := UserCard{User: user}
	if sess != nil {
		card.Relation = sess.Follows.RelationTo(user.ID)
		card.IsSelf = user.ID == sess.Viewer().ID
	}
	return card
}
