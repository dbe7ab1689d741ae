// Package decoder rebuilds a HyleOutput from the flat list of public inputs a
// Noir proof exposes.
//
// The circuit packs the record positionally with no markers besides length
// prefixes:
//
//	version
//	len, initial_state...
//	len, next_state...
//	len, identity code points...
//	len, tx_hash...
//	index
//	payload_len, [payload window of PayloadWindowSize tokens]
//	success
//	program outputs...
//
// Program outputs are not interpreted and are left on the cursor.
package decoder

import (
	"github.com/hyle-org/noir-verifier/types"
)

const (
	FieldVersion      = "version"
	FieldInitialState = "initial_state"
	FieldNextState    = "next_state"
	FieldIdentity     = "identity"
	FieldTxHash       = "tx_hash"
	FieldIndex        = "index"
	FieldPayloads     = "payloads"
	FieldSuccess      = "success"
)

type options struct {
	policy WindowPolicy
}

type Option func(*options)

func WithPayloadWindow(policy WindowPolicy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// Decode reads one HyleOutput from the start of fields.
func Decode(fields []string, opts ...Option) (types.HyleOutput, error) {
	return DecodeFrom(NewCursor(fields), opts...)
}

// DecodeFrom reads one HyleOutput from c. On success c is left positioned on
// the first program output token.
func DecodeFrom(c *Cursor, opts ...Option) (types.HyleOutput, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var (
		out types.HyleOutput
		err error
	)
	if out.Version, err = c.ReadUint32(FieldVersion, 10); err != nil {
		return types.HyleOutput{}, err
	}
	if out.InitialState, err = c.ReadArray(FieldInitialState); err != nil {
		return types.HyleOutput{}, err
	}
	if out.NextState, err = c.ReadArray(FieldNextState); err != nil {
		return types.HyleOutput{}, err
	}
	if out.Identity, err = c.ReadString(FieldIdentity); err != nil {
		return types.HyleOutput{}, err
	}
	if out.TxHash, err = c.ReadArray(FieldTxHash); err != nil {
		return types.HyleOutput{}, err
	}
	if out.Index, err = c.ReadUint32(FieldIndex, 10); err != nil {
		return types.HyleOutput{}, err
	}
	if out.Payloads, err = c.ReadPayloads(FieldPayloads, o.policy); err != nil {
		return types.HyleOutput{}, err
	}
	if out.Success, err = c.ReadSuccessFlag(FieldSuccess); err != nil {
		return types.HyleOutput{}, err
	}
	return out, nil
}
