package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Tokens bool
	Parse  bool
	NS     bool
	Select bool
	Patch  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Tokens = boolEnv("DOMTREE_DEBUG_TOKENS")
	d.Parse = boolEnv("DOMTREE_DEBUG_PARSE")
	d.NS = boolEnv("DOMTREE_DEBUG_NS")
	d.Select = boolEnv("DOMTREE_DEBUG_SELECT")
	d.Patch = boolEnv("DOMTREE_DEBUG_PATCH")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Tokens() bool {
	return d.Tokens
}
func Parse() bool {
	return d.Parse
}
func NS() bool {
	return d.NS
}
func Select() bool {
	return d.Select
}
func Patch() bool {
	return d.Patch
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
}
