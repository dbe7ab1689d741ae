package cmd

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyle-org/noir-verifier/decoder"
	"github.com/hyle-org/noir-verifier/field"
	"github.com/hyle-org/noir-verifier/types"
)

var (
	fLayoutPath  string
	fEncodedPath string
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "writes the field array a circuit would expose for a HyleOutput, for testing decoders",
	RunE:  encode,
}

// LayoutFile is the JSON input of the encode command. Payload values are
// decimal or 0x hex strings so they are not limited to 64 bits.
type LayoutFile struct {
	Output         types.HyleOutput `json:"output"`
	Payloads       [][]string       `json:"payloads"`
	ProgramOutputs []string         `json:"program_outputs"`
}

func (l LayoutFile) Layout() (decoder.Layout, error) {
	layout := decoder.Layout{
		Output:         l.Output,
		Payloads:       make([][]*big.Int, len(l.Payloads)),
		ProgramOutputs: l.ProgramOutputs,
	}
	for i, record := range l.Payloads {
		layout.Payloads[i] = make([]*big.Int, len(record))
		for j, token := range record {
			v, err := field.ParseBig(token, 10)
			if err != nil {
				return layout, fmt.Errorf("payload %d value %d: %w", i, j, err)
			}
			layout.Payloads[i][j] = v
		}
	}
	return layout, nil
}

func encode(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(fLayoutPath)
	if err != nil {
		return fmt.Errorf("failed to read layout: %w", err)
	}
	var lf LayoutFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return fmt.Errorf("failed to parse layout: %w", err)
	}
	layout, err := lf.Layout()
	if err != nil {
		return err
	}
	fields, err := decoder.Encode(layout)
	if err != nil {
		return err
	}
	if err := types.WritePublicInputs(fEncodedPath, fields); err != nil {
		return err
	}
	log.Info().Int("fields", len(fields)).Msg("Successfully saved fields to " + fEncodedPath)
	return nil
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringVar(&fLayoutPath, "in", "", "path to the layout JSON")
	encodeCmd.Flags().StringVar(&fEncodedPath, "output", "", "where to write the field array")
	encodeCmd.MarkFlagRequired("in")
	encodeCmd.MarkFlagRequired("output")
}
