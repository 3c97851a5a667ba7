// Package debug gates diagnostic logging behind VDOM_DEBUG_*
// environment variables. All gates are read once at startup.
package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Diff  bool
	LCS   bool
	Index bool
	Cache bool
	Watch bool
}

var d *debug

func init() {
	d = &debug{}
	d.Diff = boolEnv("VDOM_DEBUG_DIFF")
	d.LCS = boolEnv("VDOM_DEBUG_LCS")
	d.Index = boolEnv("VDOM_DEBUG_INDEX")
	d.Cache = boolEnv("VDOM_DEBUG_CACHE")
	d.Watch = boolEnv("VDOM_DEBUG_WATCH")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Diff() bool {
	return d.Diff
}
func LCS() bool {
	return d.LCS
}
func Index() bool {
	return d.Index
}
func Cache() bool {
	return d.Cache
}
func Watch() bool {
	return d.Watch
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
}
