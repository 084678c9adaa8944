package model

import (
	"time"

	"gorm.io/datatypes"
)

// Permission names form a closed set. Role membership is the sole
// authorization signal.
const (
	PermReadUser       = "read:user"
	PermPatchMyUser    = "patch:my-user"
	PermPatchAnyUser   = "patch:any-user"
	PermPostPost       = "post:post"
	PermPatchMyPost    = "patch:my-post"
	PermPatchAnyPost   = "patch:any-post"
	PermDeleteMyPost   = "delete:my-post"
	PermDeleteAnyPost  = "delete:any-post"
	PermReadMessages   = "read:messages"
	PermPostMessage    = "post:message"
	PermDeleteMessages = "delete:messages"
	PermPostReport     = "post:report"
	PermReadAdminBoard = "read:admin-board"
	PermBlockUser      = "block:user"
)

// Role names used by seeding and the block flow.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
	RoleBlocked   = "blocked"
)

type Permission struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

type Role struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

// HasAnyPermission reports whether the role holds at least one of the
// named permissions (OR semantics).
func (r *Role) HasAnyPermission(names ...string) bool {
	for _, p := range r.Permissions {
		for _, name := range names {
			if p.Name == name {
				return true
			}
		}
	}
	return false
}

type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	DisplayName string `gorm:"size:60;not null" json:"display_name"`
	// ExternalID is the subject the identity provider issues tokens for.
	ExternalID   string         `gorm:"size:255;uniqueIndex;not null" json:"-"`
	RoleID       uint           `json:"role_id"`
	Role         Role           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"role"`
	ReceivedHugs int            `gorm:"default:0" json:"received_hugs"`
	GivenHugs    int            `gorm:"default:0" json:"given_hugs"`
	LoginCount   int            `gorm:"default:0" json:"login_count"`
	Blocked      bool           `gorm:"default:false" json:"blocked"`
	ReleaseDate  *time.Time     `json:"release_date,omitempty"`
	LastRead     *time.Time     `json:"last_notifications_read,omitempty"`
	SelectedIcon string         `gorm:"size:20;default:'kitty'" json:"selected_icon"`
	IconColours  datatypes.JSON `json:"icon_colours,omitempty"`
	RefreshRate  int            `gorm:"default:20" json:"refresh_rate"`
	AutoRefresh  bool           `gorm:"default:true" json:"auto_refresh"`
	PushEnabled  bool           `gorm:"default:false" json:"push_enabled"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
}
