package smoketests

import "net/http"

// Paths of the service under test.
const (
	PathRoot           = "/api"
	PathUser           = "/api/user"
	PathLeaves         = "/api/leaves"
	PathPendingLeaves  = "/api/leaves/pending"
	PathApproveLeave   = "/api/leaves/approve"
	PathDashboardStats = "/api/dashboard/stats"
	PathRegister       = "/api/auth/register"
	PathLogin          = "/api/auth/login"

	// PathUnknown is not a route of the service; it should fall back to the API root response.
	PathUnknown = "/api/unknown"
)

type endpoint struct {
	method      string
	path        string
	description string
}

var protectedEndpoints = []endpoint{
	{http.MethodGet, PathUser, "Get User Profile"},
	{http.MethodGet, PathLeaves, "Get User Leaves"},
	{http.MethodGet, PathPendingLeaves, "Get Pending Leaves"},
	{http.MethodGet, PathDashboardStats, "Get Dashboard Stats"},
	{http.MethodPost, PathLeaves, "Create Leave Request"},
	{http.MethodPut, PathApproveLeave, "Approve Leave Request"},
}

var routedEndpoints = []endpoint{
	{http.MethodGet, PathRoot, "Base API endpoint"},
	{http.MethodGet, PathUser, "User profile endpoint"},
	{http.MethodGet, PathLeaves, "Leaves endpoint"},
	{http.MethodGet, PathPendingLeaves, "Pending leaves endpoint"},
	{http.MethodGet, PathDashboardStats, "Dashboard stats endpoint"},
	{http.MethodGet, PathRegister, "Registration endpoint"},
	{http.MethodGet, PathLogin, "Login endpoint"},
	{http.MethodGet, PathApproveLeave, "Leave approval endpoint"},
	{http.MethodGet, PathUnknown, "Unknown path fallback"},
}

var methodEndpoints = []endpoint{
	{http.MethodPost, PathRegister, "Registration should accept POST"},
	{http.MethodPost, PathLogin, "Login should accept POST"},
	{http.MethodGet, PathUser, "User profile should accept GET"},
	{http.MethodGet, PathLeaves, "Leaves list should accept GET"},
	{http.MethodPost, PathLeaves, "Leave creation should accept POST"},
	{http.MethodPut, PathApproveLeave, "Leave approval should accept PUT"},
	{http.MethodGet, PathDashboardStats, "Dashboard stats should accept GET"},
}

// emptyBodyFor returns an empty JSON object for methods that carry a body, and nil otherwise.
func emptyBodyFor(method string) interface{} {
	if method == http.MethodPost || method == http.MethodPut {
		return map[string]interface{}{}
	}
	return nil
}
