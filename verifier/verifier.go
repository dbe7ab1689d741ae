// Package verifier checks a Noir proof with bb and decodes the HyleOutput it
// commits to.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyle-org/noir-verifier/bb"
	"github.com/hyle-org/noir-verifier/decoder"
	"github.com/hyle-org/noir-verifier/types"
)

var ErrProofInvalid = errors.New("proof verification failed")

type Request struct {
	ProofPath  string
	VkPath     string
	OutputPath string
}

// VerifyAndDecode only decodes public inputs once bb has accepted the proof.
func VerifyAndDecode(ctx context.Context, runner bb.Runner, req Request, opts ...decoder.Option) (types.HyleOutput, error) {
	start := time.Now()
	if err := runner.Verify(ctx, req.ProofPath, req.VkPath); err != nil {
		return types.HyleOutput{}, fmt.Errorf("%w: %w", ErrProofInvalid, err)
	}
	log.Info().Msg("Successfully verified proof, time: " + time.Since(start).String())

	start = time.Now()
	if err := runner.ProofAsFields(ctx, req.ProofPath, req.VkPath, req.OutputPath); err != nil {
		return types.HyleOutput{}, fmt.Errorf("failed to export proof fields: %w", err)
	}
	log.Debug().Msg("Successfully exported proof fields to " + req.OutputPath + ", time: " + time.Since(start).String())

	fields, err := types.ReadPublicInputs(req.OutputPath)
	if err != nil {
		return types.HyleOutput{}, err
	}
	return Decode(fields, opts...)
}

// Decode wraps decoder.Decode with logging of the layout mismatch context.
func Decode(fields []string, opts ...decoder.Option) (types.HyleOutput, error) {
	out, err := decoder.Decode(fields, opts...)
	if err != nil {
		var de *decoder.DecodeError
		if errors.As(err, &de) {
			log.Error().
				Str("field", de.Field).
				Int("position", de.Position).
				Int("fields", len(fields)).
				Msg("Public inputs do not match the HyleOutput layout")
		}
		return types.HyleOutput{}, fmt.Errorf("failed to decode public inputs: %w", err)
	}
	log.Debug().
		Uint32("version", out.Version).
		Str("identity", out.Identity).
		Bool("success", out.Success).
		Msg("Decoded HyleOutput")
	return out, nil
}
