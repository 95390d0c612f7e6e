package models

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User represents a user in the system
// Roles được lưu dạng JSON: "null" nghĩa là chưa xác định, "[]" nghĩa là không có role nào
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	FullName  string         `json:"full_name"`
	Password  string         `gorm:"not null" json:"-"` // Hidden from JSON
	Active    bool           `gorm:"default:true" json:"is_active"`
	Roles     []string       `gorm:"-" json:"roles"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Helper field for GORM (jsonb trên PostgreSQL, JSON trên SQLite)
	RolesJSON datatypes.JSON `gorm:"column:roles" json:"-"`
}

// BeforeCreate hook to generate UUID and serialize roles
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return u.serializeRoles()
}

// BeforeUpdate hook to serialize roles
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	return u.serializeRoles()
}

// AfterFind hook to deserialize roles
func (u *User) AfterFind(tx *gorm.DB) error {
	return u.deserializeRoles()
}

// serializeRoles converts Roles slice to JSON string
func (u *User) serializeRoles() error {
	data, err := json.Marshal(u.Roles)
	if err != nil {
		return err
	}
	u.RolesJSON = datatypes.JSON(data)
	return nil
}

// deserializeRoles converts JSON string to Roles slice
func (u *User) deserializeRoles() error {
	u.Roles = nil
	if len(u.RolesJSON) == 0 {
		return nil
	}
	return json.Unmarshal(u.RolesJSON, &u.Roles)
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// GetID trả về ID của user dạng string
func (u *User) GetID() string {
	return u.ID.String()
}

// GetEmail trả về email của user
func (u *User) GetEmail() string {
	return u.Email
}

// IsActive trả về trạng thái active của user
func (u *User) IsActive() bool {
	return u.Active
}

// GetRoleNames trả về roles của user, an toàn khi u là nil
func (u *User) GetRoleNames() []string {
	if u == nil {
		return nil
	}
	return u.Roles
}

// WithRoles trả về bản sao user với roles mới, user gốc không bị thay đổi
func (u *User) WithRoles(roles []string) *User {
	clone := *u
	clone.Roles = slices.Clone(roles)
	return &clone
}
