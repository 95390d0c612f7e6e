package utils

import (
	"github.com/techmaster-vietnam/rolekit/rbac"
)

// RoleLevelsToNames chuyển danh sách level sang tên role
// Trả về thêm danh sách level không hợp lệ để caller báo lỗi
func RoleLevelsToNames(levels []int) ([]string, []int) {
	if len(levels) == 0 {
		return []string{}, nil
	}

	names := make([]string, 0, len(levels))
	var invalid []int
	for _, level := range levels {
		name, ok := rbac.RoleLevelToName[level]
		if !ok {
			invalid = append(invalid, level)
			continue
		}
		names = append(names, name)
	}
	return names, invalid
}

// RoleNamesToLevels chuyển danh sách tên role sang level, bỏ qua role lạ
func RoleNamesToLevels(names []string) []int {
	if len(names) == 0 {
		return []int{}
	}

	levels := make([]int, 0, len(names))
	for _, name := range names {
		if level, ok := rbac.RoleNameToLevel[name]; ok {
			levels = append(levels, level)
		}
	}
	return levels
}

// DedupeRoleNames loại bỏ role trùng lặp, giữ nguyên thứ tự xuất hiện đầu tiên
func DedupeRoleNames(names []string) []string {
	if len(names) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}
	return result
}

// UnknownRoleNames trả về các role không thuộc taxonomy staff/manager/admin
func UnknownRoleNames(names []string) []string {
	var unknown []string
	for _, name := range names {
		if !rbac.IsKnownRole(name) {
			unknown = append(unknown, name)
		}
	}
	return unknown
}
