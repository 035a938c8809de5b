package normalize

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

const unknown = "Unknown"

func stringOr(r gjson.Result, def string) string {
	if !r.Exists() || r.Type == gjson.Null {
		return def
	}

	return r.String()
}

func intOr(r gjson.Result) int {
	if !r.Exists() {
		return 0
	}

	return int(r.Int())
}

func floatOr(r gjson.Result) float64 {
	if !r.Exists() {
		return 0
	}

	return r.Float()
}

// raw copies body so the payload does not alias the caller's buffer.
func raw(body []byte) json.RawMessage {
	return append(json.RawMessage(nil), body...)
}
