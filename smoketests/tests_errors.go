package smoketests

import (
	"net/http"
)

func DoErrorHandlingTests(t *T) {
	t.Expect("Error Handling", EndpointExpectation{
		Method:      http.MethodPost,
		Path:        PathLogin,
		RawBody:     []byte("invalid json"),
		Headers:     map[string]string{"Content-Type": "application/json"},
		Status:      StatusAtLeast(http.StatusBadRequest),
		PassMessage: "Properly handles invalid JSON",
	})
}

func DoErrorFormatTests(t *T) {
	t.Expect("Error Format - Unauthorized", EndpointExpectation{
		Method:      http.MethodGet,
		Path:        PathUser,
		Status:      StatusEquals(http.StatusUnauthorized),
		Checks:      []ResponsePredicate{IsJSON(), HasStringField("error")},
		PassMessage: "Proper error format for unauthorized access",
	})
}
