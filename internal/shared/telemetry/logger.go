// Package telemetry writes structured JSON log lines to stdout, one
// object per line, for collection by the surrounding platform.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Info logs an info-level event with structured fields.
func Info(msg string, fields map[string]any) { emit("info", msg, fields) }

// Error logs an error-level event with structured fields.
func Error(msg string, fields map[string]any) { emit("error", msg, fields) }

func emit(level, msg string, fields map[string]any) {
	line := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		line[k] = v
	}
	// Reserved keys win over caller fields.
	line["ts"] = time.Now().UTC().Format(time.RFC3339)
	line["level"] = level
	line["msg"] = msg

	data, err := json.Marshal(line)
	if err != nil {
		fmt.Fprintf(os.Stdout, `{"ts":%q,"level":"error","msg":"logger marshal failed","err":%q}`+"\n",
			time.Now().UTC().Format(time.RFC3339), err.Error())
		return
	}
	fmt.Fprintln(os.Stdout, string(data))
}
