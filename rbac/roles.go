package rbac

// Tên role chuẩn, xếp theo thứ tự quyền hạn tăng dần: staff < manager < admin
const (
	RoleStaff   = "staff"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// Level của từng role chuẩn
const (
	LevelStaff   = 1
	LevelManager = 2
	LevelAdmin   = 3
)

// UnknownRoleName được trả về khi level không thuộc taxonomy
const UnknownRoleName = "unknown"

// RoleNameToLevel ánh xạ tên role -> level
var RoleNameToLevel = map[string]int{
	RoleStaff:   LevelStaff,
	RoleManager: LevelManager,
	RoleAdmin:   LevelAdmin,
}

// RoleLevelToName ánh xạ ngược level -> tên role
var RoleLevelToName = map[int]string{
	LevelStaff:   RoleStaff,
	LevelManager: RoleManager,
	LevelAdmin:   RoleAdmin,
}

// RoleHierarchy là thứ tự cố định dùng để so sánh, vị trí index chính là rank
var RoleHierarchy = []string{RoleStaff, RoleManager, RoleAdmin}

// RankOf trả về rank của role trong RoleHierarchy, -1 nếu không nhận diện được
func RankOf(roleName string) int {
	for i, name := range RoleHierarchy {
		if name == roleName {
			return i
		}
	}
	return -1
}

// IsKnownRole kiểm tra role có thuộc tập role chuẩn không
func IsKnownRole(roleName string) bool {
	return RankOf(roleName) >= 0
}
