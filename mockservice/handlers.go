package mockservice

import (
	"encoding/json"
	"net/http"
	"strings"
)

type tokenRequest struct {
	IDToken     string `json:"idToken"`
	DisplayName string `json:"displayName"`
	Department  string `json:"department"`
	PhoneNumber string `json:"phoneNumber"`
}

type userProfile struct {
	UID          string         `json:"uid"`
	Email        string         `json:"email"`
	DisplayName  string         `json:"displayName"`
	Role         string         `json:"role"`
	LeaveBalance map[string]int `json:"leaveBalance"`
}

var mockUser = userProfile{
	UID:          "mock-user",
	Email:        "mock.user@example.com",
	DisplayName:  "Mock User",
	Role:         "Employee",
	LeaveBalance: map[string]int{"annual": 25, "sick": 10, "personal": 5},
}

func (s *Service) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != ValidToken {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r)
	}
}

func (s *Service) getRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": RootMessage})
}

func (s *Service) getUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mockUser)
}

func (s *Service) getLeaves(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []interface{}{})
}

func (s *Service) getPendingLeaves(w http.ResponseWriter, r *http.Request) {
	// The mock user is an employee, not a manager.
	writeError(w, http.StatusForbidden, "Insufficient permissions")
}

func (s *Service) createLeave(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create leave request")
		return
	}
	body["status"] = "pending"
	body["employeeUid"] = mockUser.UID
	writeJSON(w, http.StatusOK, body)
}

func (s *Service) approveLeave(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusForbidden, "Insufficient permissions")
}

func (s *Service) getDashboardStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"leaveBalance": mockUser.LeaveBalance,
		"recentLeaves": []interface{}{},
		"pendingCount": 0,
	})
}

// register fails with a server error whenever the identity token cannot be verified, as
// the real service does.
func (s *Service) register(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken != ValidToken {
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	user := mockUser
	user.DisplayName = req.DisplayName
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": user})
}

func (s *Service) login(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken != ValidToken {
		writeError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
