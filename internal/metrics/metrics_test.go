package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/forums":       "/forums",
		"/forums/12":    "/forums/{id}",
		"/comments/7":   "/comments/{id}",
		"/forums/12/x":  "/forums/{id}/x",
		"/auth/profile": "/auth/profile",
	}
	for in, want := range cases {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRecordAuth(t *testing.T) {
	before := testutil.ToFloat64(AuthAttemptsTotal.WithLabelValues("login", "success"))
	RecordAuth("login", "success")
	after := testutil.ToFloat64(AuthAttemptsTotal.WithLabelValues("login", "success"))
	if after-before != 1 {
		t.Errorf("login success counter moved by %v, want 1", after-before)
	}
}

func TestAddCascadedComments_IgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(CascadedCommentsTotal)
	AddCascadedComments(0)
	AddCascadedComments(3)
	if got := testutil.ToFloat64(CascadedCommentsTotal) - before; got != 3 {
		t.Errorf("cascaded counter moved by %v, want 3", got)
	}
}
