package types

import (
	"encoding/json"
	"fmt"
	"os"
)

// HyleOutput is the execution output a Noir program commits to in its public
// inputs.
type HyleOutput struct {
	Version      uint32   `json:"version"`
	InitialState []uint64 `json:"initial_state"`
	NextState    []uint64 `json:"next_state"`
	Identity     string   `json:"identity"`
	TxHash       []uint64 `json:"tx_hash"`
	Index        uint32   `json:"index"`
	Payloads     Payloads `json:"payloads"`
	Success      bool     `json:"success"`
}

// Payloads holds the textual re-encoding of the payload section. It is
// serialized as an array of byte values rather than base64 so downstream
// consumers see the same shape for every list field.
type Payloads []byte

func (p Payloads) MarshalJSON() ([]byte, error) {
	// []uint8 would be base64 encoded, so go through []uint16.
	wide := make([]uint16, len(p))
	for i, b := range p {
		wide[i] = uint16(b)
	}
	return json.Marshal(wide)
}

func (p *Payloads) UnmarshalJSON(data []byte) error {
	var wide []uint16
	if err := json.Unmarshal(data, &wide); err != nil {
		return err
	}
	out := make(Payloads, len(wide))
	for i, v := range wide {
		if v > 0xFF {
			return fmt.Errorf("payload byte %d out of range: %d", i, v)
		}
		out[i] = byte(v)
	}
	*p = out
	return nil
}

func (p Payloads) String() string {
	return string(p)
}

func (h *HyleOutput) Export(file string) error {
	outputFile, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer outputFile.Close()

	jsonString, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	if _, err = outputFile.Write(jsonString); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}
	return nil
}
