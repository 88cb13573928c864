package dto

// CreateCommentRequest represents the body of POST /projects/:id/comments
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}
