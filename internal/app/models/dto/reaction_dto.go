package dto

import "github.com/google/uuid"

// BookmarkAction is the requested change to a bookmark
type BookmarkAction string

const (
	BookmarkAdd    BookmarkAction = "add"
	BookmarkRemove BookmarkAction = "remove"
)

// ToggleBookmarkRequest represents the body of PUT /users/me/bookmarks/:projectId
type ToggleBookmarkRequest struct {
	Action BookmarkAction `json:"action" binding:"required,oneof=add remove" example:"add"`
}

// BookmarkResponse reports the bookmark state after a toggle
type BookmarkResponse struct {
	ProjectID  uuid.UUID      `json:"projectId"`
	Bookmarked bool           `json:"bookmarked"`
	Action     BookmarkAction `json:"action"`
}

// LikeResponse reports the like state after a like or unlike
type LikeResponse struct {
	ProjectID uuid.UUID `json:"projectId"`
	Liked     bool      `json:"liked"`
	LikeCount int64     `json:"likeCount"`
}
