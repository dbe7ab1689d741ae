package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyle-org/noir-verifier/decoder"
	"github.com/hyle-org/noir-verifier/types"
)

type fakeRunner struct {
	verifyErr error
	fields    []string
	proof     []byte
}

func (f *fakeRunner) Verify(ctx context.Context, proofPath, vkPath string) error {
	proof, err := os.ReadFile(proofPath)
	if err != nil {
		return err
	}
	f.proof = proof
	return f.verifyErr
}

func (f *fakeRunner) ProofAsFields(ctx context.Context, proofPath, vkPath, outputPath string) error {
	return types.WritePublicInputs(outputPath, f.fields)
}

func encodedFields(t *testing.T) []string {
	t.Helper()
	fields, err := decoder.Encode(decoder.Layout{
		Output: types.HyleOutput{
			Version:  1,
			Identity: "bob",
			TxHash:   []uint64{7},
			Success:  true,
		},
		Payloads: [][]*big.Int{{big.NewInt(42)}, {}},
	})
	require.NoError(t, err)
	return fields
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRouter(&fakeRunner{}, t.TempDir(), decoder.PayloadWindowLenient)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Health check passed"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRouter(&fakeRunner{verifyErr: errors.New("exit 1")}, t.TempDir(), decoder.PayloadWindowLenient)

	doJSON(t, router, http.MethodPost, "/verify", map[string]string{"proof": "0x01", "vk": "0x02"})
	w := doJSON(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `noir_verifier_verifications_total{outcome="invalid"} 1`)
}

func TestDecodeEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRouter(&fakeRunner{}, t.TempDir(), decoder.PayloadWindowLenient)

	w := doJSON(t, router, http.MethodPost, "/decode", DecodeRequest{Fields: encodedFields(t)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out types.HyleOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "bob", out.Identity)
	assert.Equal(t, "1 420", out.Payloads.String())
	assert.True(t, out.Success)
}

func TestDecodeEndpointLayoutError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRouter(&fakeRunner{}, t.TempDir(), decoder.PayloadWindowLenient)

	w := doJSON(t, router, http.MethodPost, "/decode", DecodeRequest{Fields: []string{"1", "0", "0", "5", "61"}})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error    string `json:"error"`
		Field    string `json:"field"`
		Position int    `json:"position"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "identity", body.Field)
	assert.Equal(t, 4, body.Position)
	assert.Contains(t, body.Error, "truncated input")

	w = doJSON(t, router, http.MethodPost, "/decode", map[string]any{"fields": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	runner := &fakeRunner{fields: encodedFields(t)}
	workDir := t.TempDir()
	router := newRouter(runner, workDir, decoder.PayloadWindowStrict)

	id := "6f1c2f36-3f2b-4a8e-9d59-0b8e5b0f4d1a"
	w := doJSON(t, router, http.MethodPost, "/verify", map[string]string{
		"id":    id,
		"proof": "0xdeadbeef",
		"vk":    "0x01",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, id, w.Header().Get("X-Request-Id"))
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, runner.proof)

	var out types.HyleOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, []uint64{7}, out.TxHash)

	entries, err := os.ReadDir(workDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestVerifyEndpointRejectsProof(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRouter(&fakeRunner{verifyErr: errors.New("exit 1")}, t.TempDir(), decoder.PayloadWindowLenient)

	w := doJSON(t, router, http.MethodPost, "/verify", map[string]string{"proof": "0x01", "vk": "0x02"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestVerifyEndpointBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRouter(&fakeRunner{}, t.TempDir(), decoder.PayloadWindowLenient)

	testCase := func(body map[string]string) {
		w := doJSON(t, router, http.MethodPost, "/verify", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	testCase(map[string]string{"proof": "0x01"})
	testCase(map[string]string{"proof": "deadbeef", "vk": "0x01"})
	testCase(map[string]string{"id": "../../etc", "proof": "0x01", "vk": "0x01"})
}

func TestVerifyEndpointLayoutMismatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRouter(&fakeRunner{fields: []string{"0x01"}}, t.TempDir(), decoder.PayloadWindowLenient)

	w := doJSON(t, router, http.MethodPost, "/verify", map[string]string{"proof": "0x01", "vk": "0x02"})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"initial_state"`)
}
