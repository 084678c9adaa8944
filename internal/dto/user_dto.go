package dto

import (
	"encoding/json"
	"time"
)

type CreateUserRequest struct {
	DisplayName string `json:"display_name"`
}

// UpdateUserRequest covers both self-edits and moderation. All fields are
// optional; absent fields leave the profile untouched.
type UpdateUserRequest struct {
	DisplayName  *string         `json:"display_name"`
	SelectedIcon *string         `json:"selected_icon"`
	IconColours  json.RawMessage `json:"icon_colours"`
	RefreshRate  *int            `json:"refresh_rate"`
	AutoRefresh  *bool           `json:"auto_refresh"`
	PushEnabled  *bool           `json:"push_enabled"`
	LoginCount   *int            `json:"login_count"`
	Blocked      *bool           `json:"blocked"`
	ReleaseDate  *time.Time      `json:"release_date"`
}
