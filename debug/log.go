package debug

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/domtree/go-domtree/encode"
	"github.com/domtree/go-domtree/tree"
)

// Doc makes a tree node printable in debug output.
type Doc struct {
	T  *tree.Tree
	ID tree.NodeID
}

func (y Doc) String() string {
	s, err := encode.String(y.T, y.ID)
	if err != nil {
		return fmt.Sprintf("[unencodable node %d] %v", y.ID, err)
	}
	return s
}

func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch x := a.(type) {
		case map[string]any, []any, json.Number:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case Doc:
			args[i] = x.String()
		case bool, string, float64, int:

		default:
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
