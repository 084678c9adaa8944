package dto

type CreatePostRequest struct {
	Text string `json:"text" binding:"required"`
}

type UpdatePostRequest struct {
	Text string `json:"text" binding:"required"`
}

type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	Page  int    `json:"page"`
}
