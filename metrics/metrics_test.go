package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyle-org/noir-verifier/decoder"
	"github.com/hyle-org/noir-verifier/verifier"
)

func TestTopLevelField(t *testing.T) {
	assert.Equal(t, "payloads", topLevelField("payloads[0].size"))
	assert.Equal(t, "payloads", topLevelField("payloads.count"))
	assert.Equal(t, "identity", topLevelField("identity[3]"))
	assert.Equal(t, "success", topLevelField("success"))
}

func TestObserveVerification(t *testing.T) {
	m := New()

	m.ObserveVerification(nil)
	m.ObserveVerification(fmt.Errorf("%w: exit 1", verifier.ErrProofInvalid))
	_, decodeErr := decoder.Decode([]string{"1", "0", "0", "4", "61"})
	require.Error(t, decodeErr)
	m.ObserveVerification(fmt.Errorf("failed to decode public inputs: %w", decodeErr))
	m.ObserveVerification(errors.New("bb not found"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("invalid")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.verifications.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decodeFailures.WithLabelValues("identity")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCounter.WithLabelValues(http.MethodGet, "/health", "200")))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "noir_verifier_api_requests_total")
}
