package repositories

import (
	"encoding/json"
	"fmt"
)

// jsonText encodes v for a "?::jsonb" placeholder.
func jsonText(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("erro ao serializar JSON: %w", err)
	}
	return string(b), nil
}
