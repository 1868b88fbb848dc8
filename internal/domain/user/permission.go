package user

// Action is a capability checked by Authorize.
type Action string

const (
	ActionAttendanceView  Action = "attendance.view"
	ActionAttendanceWrite Action = "attendance.write"
	ActionEmployeeView    Action = "employee.view"
	ActionEmployeeEdit    Action = "employee.edit"
	ActionEmployeeManage  Action = "employee.manage"
	ActionSummaryView     Action = "summary.view"
	ActionSummaryExport   Action = "summary.export"
	ActionUserApprove     Action = "user.approve"
)

var viewerActions = []Action{
	ActionAttendanceView,
	ActionEmployeeView,
	ActionSummaryView,
	ActionSummaryExport,
}

var managerActions = append([]Action{
	ActionAttendanceWrite,
	ActionEmployeeEdit,
}, viewerActions...)

var adminActions = append([]Action{
	ActionEmployeeManage,
	ActionUserApprove,
}, managerActions...)

// RolePermissions lists what each role may do. Pending accounts get nothing.
var RolePermissions = map[Role][]Action{
	RolePending: nil,
	RoleViewer:  viewerActions,
	RoleManager: managerActions,
	RoleAdmin:   adminActions,
}

// EffectiveRole collapses unapproved accounts to pending, whatever role they
// were granted before a rejection.
func EffectiveRole(role Role, approved bool) Role {
	if !approved {
		return RolePending
	}
	return role
}

// Authorize is the single access decision point.
func Authorize(role Role, action Action) bool {
	for _, a := range RolePermissions[role] {
		if a == action {
			return true
		}
	}
	return false
}

// Can checks an action against the account's effective role.
func (u User) Can(action Action) bool {
	return Authorize(EffectiveRole(u.Role, u.Approved), action)
}
