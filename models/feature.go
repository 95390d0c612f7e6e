package models

// Feature keys của ứng dụng quản lý công việc
const (
	FeatureProjectArchiveView    = "project.archive.view"
	FeatureProjectArchiveRestore = "project.archive.restore"
	FeatureReportView            = "report.view"
	FeatureTaskView              = "task.view"
	FeatureCalendarView          = "calendar.view"
	FeatureNotificationView      = "notification.view"
)

// Feature định nghĩa một chức năng trên UI được bảo vệ bởi danh sách role
type Feature struct {
	Key         string   `json:"key"`
	Roles       []string `json:"roles"`
	RequireAll  bool     `json:"require_all"` // true: phải có tất cả roles, false: chỉ cần một
	Description string   `json:"description"`
}

// DefaultFeatures trả về catalogue feature mặc định
// Mỗi lần gọi trả về slice mới để caller có thể chỉnh sửa tùy ý
func DefaultFeatures() []Feature {
	return []Feature{
		{
			Key:         FeatureProjectArchiveView,
			Roles:       []string{"manager", "admin"},
			Description: "Xem danh sách project đã lưu trữ",
		},
		{
			Key:         FeatureProjectArchiveRestore,
			Roles:       []string{"manager", "admin"},
			Description: "Khôi phục project/task từ kho lưu trữ",
		},
		{
			Key:         FeatureReportView,
			Roles:       []string{"manager", "admin"},
			Description: "Xem báo cáo",
		},
		{
			Key:         FeatureTaskView,
			Roles:       []string{"staff", "manager", "admin"},
			Description: "Xem task và subtask",
		},
		{
			Key:         FeatureCalendarView,
			Roles:       []string{"staff", "manager", "admin"},
			Description: "Xem lịch",
		},
		{
			Key:         FeatureNotificationView,
			Roles:       []string{"staff", "manager", "admin"},
			Description: "Xem thông báo",
		},
	}
}
