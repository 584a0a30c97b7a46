package live

import (
	"MetalCal/internal/catalog"
	"MetalCal/internal/field"
)

const (
	TypeCalc   = "calc"
	TypePing   = "ping"
	TypeResult = "result"
	TypeError  = "error"
	TypePong   = "pong"
)

// Msg is the single envelope used in both directions.
type Msg struct {
	Type    string                  `json:"type"`
	Formula string                  `json:"formula,omitempty"`
	Inputs  map[string]field.Number `json:"inputs,omitempty"`
	Result  *catalog.Result         `json:"result,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

func errorMsg(err error) Msg {
	return Msg{Type: TypeError, Error: err.Error()}
}
