package models

// Role mô tả một role trong taxonomy cố định staff < manager < admin
// Không lưu vào database: roles của user được lưu trực tiếp trên bảng users
type Role struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
	Rank  int    `json:"rank"` // Vị trí trong hierarchy, dùng để so sánh
}
