package dto

import "encoding/json"

type SubscribeRequest struct {
	Endpoint string          `json:"endpoint" binding:"required"`
	Data     json.RawMessage `json:"data" binding:"required"`
}
