package repository

import (
	"encoding/json"
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/domain"
)

// EncodeLines serializes the line list into the persisted cart representation:
// a JSON array of {product, quantity, selected_variants} objects in cart order.
func EncodeLines(lines []domain.CartLine) ([]byte, error) {
	if lines == nil {
		lines = []domain.CartLine{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

func DecodeLines(data []byte) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return lines, nil
}
