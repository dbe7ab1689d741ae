package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hyle-org/noir-verifier/decoder"
	"github.com/hyle-org/noir-verifier/types"
	"github.com/hyle-org/noir-verifier/verifier"
)

var fFieldsPath string

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "decodes a HyleOutput from a field file exported by bb proof_as_fields, without verifying",
	RunE:  decode,
}

func decode(cmd *cobra.Command, args []string) error {
	fields, err := types.ReadPublicInputs(fFieldsPath)
	if err != nil {
		return err
	}
	out, err := verifier.Decode(fields, decoder.WithPayloadWindow(windowPolicy()))
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), out)
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().StringVar(&fFieldsPath, "fields", "", "path to the JSON field array")
	decodeCmd.MarkFlagRequired("fields")
}
