package decoder

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/hyle-org/noir-verifier/field"
	"github.com/hyle-org/noir-verifier/types"
)

// ErrPayloadOverflow is returned by Encode when the payload records do not
// fit in the window. Decoding never raises it.
var ErrPayloadOverflow = errors.New("payload section exceeds window")

// Layout is the logical content of a public input list: the record, the
// structured payload records (HyleOutput.Payloads only holds their text
// form) and any trailing program outputs.
type Layout struct {
	Output         types.HyleOutput
	Payloads       [][]*big.Int
	ProgramOutputs []string
}

// Encode lays out l the way the circuit does, with every value rendered as a
// 32 byte hex field element. The payload window is zero padded to
// PayloadWindowSize tokens.
func Encode(l Layout) ([]string, error) {
	var fields []string
	pushUint := func(v uint64) {
		fields = append(fields, field.HexUint64(v))
	}
	pushArray := func(values []uint64) {
		pushUint(uint64(len(values)))
		for _, v := range values {
			pushUint(v)
		}
	}

	out := l.Output
	pushUint(uint64(out.Version))
	pushArray(out.InitialState)
	pushArray(out.NextState)

	identity := []rune(out.Identity)
	pushUint(uint64(len(identity)))
	for _, r := range identity {
		pushUint(uint64(r))
	}

	pushArray(out.TxHash)
	pushUint(uint64(out.Index))

	window := make([]string, 0, PayloadWindowSize)
	window = append(window, field.HexUint64(uint64(len(l.Payloads))))
	for _, record := range l.Payloads {
		window = append(window, field.HexUint64(uint64(len(record))))
		for _, v := range record {
			window = append(window, field.Hex(v))
		}
	}
	if len(window) > PayloadWindowSize {
		return nil, fmt.Errorf("%w: %d tokens", ErrPayloadOverflow, len(window))
	}
	pushUint(uint64(len(window)))
	zero := field.HexUint64(0)
	for len(window) < PayloadWindowSize {
		window = append(window, zero)
	}
	fields = append(fields, window...)

	if out.Success {
		pushUint(1)
	} else {
		pushUint(0)
	}
	return append(fields, l.ProgramOutputs...), nil
}
