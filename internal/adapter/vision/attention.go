package vision

import "fmt"

// AttentionTensor holds the attention weights captured during one forward
// pass, stacked as [layers, heads, tokens, tokens]. Token 0 is the CLS
// summary token; the remaining tokens map onto the spatial patch grid.
// The tensor is ephemeral: it lives only for the duration of one request.
type AttentionTensor struct {
	Layers int
	Heads  int
	Tokens int
	Data   []float32
}

// NewAttentionTensor wraps raw stacked attention data. It fails when the
// data length does not match the declared shape.
func NewAttentionTensor(layers, heads, tokens int, data []float32) (*AttentionTensor, error) {
	if want := layers * heads * tokens * tokens; len(data) != want {
		return nil, fmt.Errorf("attention data length %d does not match shape [%d %d %d %d]",
			len(data), layers, heads, tokens, tokens)
	}
	return &AttentionTensor{Layers: layers, Heads: heads, Tokens: tokens, Data: data}, nil
}

// At returns the attention weight from token `from` to token `to`
func (t *AttentionTensor) At(layer, head, from, to int) float32 {
	idx := ((layer*t.Heads+head)*t.Tokens+from)*t.Tokens + to
	return t.Data[idx]
}

// PatchRow extracts the attention distribution from one reference patch to
// every other patch, excluding the CLS token row and column. The returned
// slice has length Tokens-1.
func (t *AttentionTensor) PatchRow(layer, head, patch int) ([]float32, error) {
	patches := t.Tokens - 1
	if layer < 0 || layer >= t.Layers {
		return nil, fmt.Errorf("attention layer %d out of range [0,%d)", layer, t.Layers)
	}
	if head < 0 || head >= t.Heads {
		return nil, fmt.Errorf("attention head %d out of range [0,%d)", head, t.Heads)
	}
	if patch < 0 || patch >= patches {
		return nil, fmt.Errorf("reference patch %d out of range [0,%d)", patch, patches)
	}

	row := make([]float32, patches)
	for to := 0; to < patches; to++ {
		// +1 skips the CLS token in both dimensions.
		row[to] = t.At(layer, head, patch+1, to+1)
	}
	return row, nil
}
