package cmd

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyle-org/noir-verifier/bb"
	"github.com/hyle-org/noir-verifier/decoder"
	"github.com/hyle-org/noir-verifier/metrics"
	"github.com/hyle-org/noir-verifier/verifier"
)

var fAddr string

var webApiCmd = &cobra.Command{
	Use:   "web-api",
	Short: "runs a web server that verifies noir proofs and decodes their HyleOutput",
	RunE:  runApi,
}

type ProofRequest struct {
	ID              string        `json:"id"`
	Proof           hexutil.Bytes `json:"proof" binding:"required"`
	VerificationKey hexutil.Bytes `json:"vk" binding:"required"`
}

type DecodeRequest struct {
	Fields []string `json:"fields" binding:"required"`
}

func healthCheck(c *gin.Context) {
	response := gin.H{
		"status":  "ok",
		"message": "Health check passed",
	}

	c.JSON(http.StatusOK, response)
}

func decodeError(c *gin.Context, status int, err error) {
	body := gin.H{"error": err.Error()}
	var de *decoder.DecodeError
	if errors.As(err, &de) {
		body["field"] = de.Field
		body["position"] = de.Position
	}
	c.JSON(status, body)
}

func decodeFields(policy decoder.WindowPolicy, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DecodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		out, err := verifier.Decode(req.Fields, decoder.WithPayloadWindow(policy))
		if err != nil {
			m.ObserveDecodeFailure(err)
			decodeError(c, http.StatusBadRequest, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func verifyProof(runner bb.Runner, workDir string, policy decoder.WindowPolicy, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProofRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		id := uuid.New()
		if req.ID != "" {
			parsed, err := uuid.Parse(req.ID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a uuid"})
				return
			}
			id = parsed
		}
		c.Header("X-Request-Id", id.String())
		logger := log.With().Str("id", id.String()).Logger()

		dir := filepath.Join(workDir, "noir-verifier-"+id.String())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create work dir"})
			return
		}
		defer os.RemoveAll(dir)

		verifierReq := verifier.Request{
			ProofPath:  filepath.Join(dir, "proof"),
			VkPath:     filepath.Join(dir, "vk"),
			OutputPath: filepath.Join(dir, "proof_fields.json"),
		}
		if err := os.WriteFile(verifierReq.ProofPath, req.Proof, 0o644); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store proof"})
			return
		}
		if err := os.WriteFile(verifierReq.VkPath, req.VerificationKey, 0o644); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store verification key"})
			return
		}

		out, err := verifier.VerifyAndDecode(c.Request.Context(), runner, verifierReq, decoder.WithPayloadWindow(policy))
		m.ObserveVerification(err)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, out)
		case errors.Is(err, verifier.ErrProofInvalid):
			logger.Warn().Err(err).Msg("Rejected proof")
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error().Err(err).Msg("Failed to process proof")
			decodeError(c, http.StatusInternalServerError, err)
		}
	}
}

func newRouter(runner bb.Runner, workDir string, policy decoder.WindowPolicy) *gin.Engine {
	m := metrics.New()
	router := gin.New()
	router.Use(gin.Recovery(), m.Middleware())
	router.GET("/health", healthCheck)
	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.POST("/decode", decodeFields(policy, m))
	router.POST("/verify", verifyProof(runner, workDir, policy, m))
	return router
}

func runApi(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr
	if fAddr != "" {
		addr = fAddr
	}
	if cfg.LogLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	runner := bb.NewCommandRunner(cfg.BB.Binary, cfg.BB.Timeout)
	router := newRouter(runner, cfg.Server.WorkDir, windowPolicy())
	log.Info().Str("addr", addr).Msg("Starting web api")
	return router.Run(addr)
}

func init() {
	rootCmd.AddCommand(webApiCmd)
	webApiCmd.Flags().StringVar(&fAddr, "addr", "", "listen address, overrides server.addr")
}
