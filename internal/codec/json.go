package codec

import (
	"encoding/json"
	"fmt"

	"github.com/gwhthompson/grist-mcp-server-sub005/pkg/core"
)

// nativeJSON is the wire form of the native tree stored in a view's
// layoutSpec field.
type nativeJSON struct {
	Leaf   *int        `json:"leaf,omitempty"`
	Split  string      `json:"split,omitempty"` // "h" or "v"
	Ratio  float64     `json:"ratio,omitempty"`
	First  *nativeJSON `json:"first,omitempty"`
	Second *nativeJSON `json:"second,omitempty"`
}

// Marshal encodes a native tree as the layoutSpec JSON string.
func Marshal(native NativeNode) (string, error) {
	wire, err := toWire(native)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(wire)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Unmarshal decodes a layoutSpec JSON string into a native tree.
func Unmarshal(spec string) (NativeNode, error) {
	var wire nativeJSON
	if err := json.Unmarshal([]byte(spec), &wire); err != nil {
		return nil, fmt.Errorf("malformed layout spec: %w", err)
	}
	return fromWire(&wire)
}

func toWire(n NativeNode) (*nativeJSON, error) {
	switch v := n.(type) {
	case *Leaf:
		section := v.Section
		return &nativeJSON{Leaf: &section}, nil
	case *HSplit:
		return splitWire("h", v.First, v.Second, v.Ratio)
	case *VSplit:
		return splitWire("v", v.First, v.Second, v.Ratio)
	default:
		return nil, fmt.Errorf("unknown native node %T", n)
	}
}

func splitWire(kind string, first, second NativeNode, ratio float64) (*nativeJSON, error) {
	f, err := toWire(first)
	if err != nil {
		return nil, err
	}
	s, err := toWire(second)
	if err != nil {
		return nil, err
	}
	return &nativeJSON{Split: kind, Ratio: ratio, First: f, Second: s}, nil
}

func fromWire(wire *nativeJSON) (NativeNode, error) {
	if wire.Leaf != nil {
		return &Leaf{Section: *wire.Leaf}, nil
	}
	if wire.Split == "" {
		return nil, core.Validationf("layout spec node is neither a leaf nor a split")
	}
	if wire.First == nil || wire.Second == nil {
		return nil, core.Validationf("%s split is missing a subtree", wire.Split)
	}
	first, err := fromWire(wire.First)
	if err != nil {
		return nil, err
	}
	second, err := fromWire(wire.Second)
	if err != nil {
		return nil, err
	}
	switch wire.Split {
	case "h":
		return &HSplit{First: first, Second: second, Ratio: wire.Ratio}, nil
	case "v":
		return &VSplit{First: first, Second: second, Ratio: wire.Ratio}, nil
	default:
		return nil, core.Validationf("unknown split kind %q", wire.Split)
	}
}
