package testsupport

import (
	"encoding/json"
	"os"
)

// LoadGolden decodes a JSON fixture into v.
func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
