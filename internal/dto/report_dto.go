package dto

type CreateReportRequest struct {
	Type   string `json:"type" binding:"required"`
	UserID uint   `json:"user_id"`
	PostID *uint  `json:"post_id"`
	Reason string `json:"reason" binding:"required"`
}

type UpdateReportRequest struct {
	Dismissed *bool `json:"dismissed"`
	Closed    *bool `json:"closed"`
}
