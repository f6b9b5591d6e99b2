package smoketests

import (
	"fmt"
	"net/http"

	"github.com/breakly/api-smoke-tests/client"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoEndpointRoutingTests(t *T) {
	for _, e := range routedEndpoints {
		name := "Endpoint Routing - " + e.description

		resp, ok := t.Call(name, client.Request{Method: e.method, Path: e.path})
		if !ok {
			continue
		}
		if resp.StatusCode == http.StatusNotFound {
			t.Fail(name, "Endpoint not found", ldvalue.String("URL: "+t.URL(e.path)))
			continue
		}
		// Any other status means the path is routed to a handler.
		t.Pass(name, "Endpoint properly routed", statusDetails(resp))
	}
}

func DoHTTPMethodTests(t *T) {
	for _, e := range methodEndpoints {
		name := "HTTP Method - " + e.description

		resp, ok := t.Call(name, client.Request{Method: e.method, Path: e.path, JSON: emptyBodyFor(e.method)})
		if !ok {
			continue
		}
		if resp.StatusCode == http.StatusMethodNotAllowed {
			t.Fail(name, "Method not allowed", ldvalue.String("Method: "+e.method))
			continue
		}
		t.Pass(name, "Method accepted", statusDetails(resp))
	}
}

func DoUnsupportedMethodTests(t *T) {
	t.Expect("HTTP Method - DELETE rejected", EndpointExpectation{
		Method:      http.MethodDelete,
		Path:        PathUser,
		Status:      StatusAtLeast(http.StatusBadRequest),
		PassMessage: fmt.Sprintf("DELETE %s properly rejected", PathUser),
	})
}
