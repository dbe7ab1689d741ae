package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hyle-org/noir-verifier/bb"
	"github.com/hyle-org/noir-verifier/decoder"
	"github.com/hyle-org/noir-verifier/types"
	"github.com/hyle-org/noir-verifier/verifier"
)

var (
	fProofPath  string
	fVKeyPath   string
	fOutputPath string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "verifies a proof with bb, exports its fields and writes the decoded HyleOutput to stdout",
	RunE:  verify,
}

func verify(cmd *cobra.Command, args []string) error {
	runner := bb.NewCommandRunner(cfg.BB.Binary, cfg.BB.Timeout)
	out, err := verifier.VerifyAndDecode(cmd.Context(), runner, verifier.Request{
		ProofPath:  fProofPath,
		VkPath:     fVKeyPath,
		OutputPath: fOutputPath,
	}, decoder.WithPayloadWindow(windowPolicy()))
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), out)
}

func writeOutput(w io.Writer, out types.HyleOutput) error {
	data, err := json.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&fProofPath, "proofPath", "", "path to the proof")
	verifyCmd.Flags().StringVar(&fVKeyPath, "vKeyPath", "", "path to the verification key")
	verifyCmd.Flags().StringVar(&fOutputPath, "outputPath", "", "where bb writes the proof fields")
	verifyCmd.MarkFlagRequired("proofPath")
	verifyCmd.MarkFlagRequired("vKeyPath")
	verifyCmd.MarkFlagRequired("outputPath")
}
