package dto

type CreateFilterRequest struct {
	Word string `json:"word" binding:"required"`
}
