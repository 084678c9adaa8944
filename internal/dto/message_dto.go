package dto

type CreateMessageRequest struct {
	ForID uint   `json:"for_id" binding:"required"`
	Text  string `json:"text" binding:"required"`
}
