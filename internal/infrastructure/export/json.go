package export

import (
	"fmt"
	"io"

	sonic "github.com/bytedance/sonic"
)

// WriteJSON encodes v as one JSON document followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	if err := sonic.ConfigDefault.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
