package runner

import (
	"encoding/json"
	"fmt"
)

// printJSON writes v to the output stream as indented JSON.
func (r *Runner) printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		r.errorf("cannot encode result: %v", err)
		return
	}
	fmt.Fprintln(r.io.Out, string(data))
}

// statusf writes a progress line to the error stream.
func (r *Runner) statusf(format string, args ...any) {
	fmt.Fprintf(r.io.Err, format+"\n", args...)
}

// errorf writes an error line to the error stream.
func (r *Runner) errorf(format string, args ...any) {
	fmt.Fprintf(r.io.Err, "ERROR: "+format+"\n", args...)
}
