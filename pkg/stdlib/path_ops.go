package stdlib

import (
	"fmt"
	"strings"

	"github.com/thomasrohde/walker/pkg/evaluator"
)

// parsePath splits "foo.bar[0].baz" into keys. Bracket indexes are plain keys
// because sequences are objects keyed by position.
func parsePath(pathStr string) []string {
	if pathStr == "" {
		return nil
	}

	var keys []string
	for _, part := range strings.Split(pathStr, ".") {
		for len(part) > 0 {
			open := strings.Index(part, "[")
			if open < 0 {
				keys = append(keys, part)
				break
			}
			if open > 0 {
				keys = append(keys, part[:open])
			}
			closeIdx := strings.Index(part[open:], "]")
			if closeIdx < 0 {
				// No closing bracket, treat rest as key
				keys = append(keys, part[open:])
				break
			}
			keys = append(keys, part[open+1:open+closeIdx])
			part = part[open+closeIdx+1:]
		}
	}
	return keys
}

func getByPath(val evaluator.Value, keys []string) evaluator.Value {
	current := val
	for _, key := range keys {
		obj, ok := current.(*evaluator.Object)
		if !ok {
			return evaluator.NewNull()
		}
		next, found := obj.Get(key)
		if !found {
			return evaluator.NewNull()
		}
		current = next
	}
	return current
}

// putByPath writes value at keys, replacing anything that is not an object
// on the way with a fresh object.
func putByPath(obj *evaluator.Object, keys []string, value evaluator.Value) {
	current := obj
	for _, key := range keys[:len(keys)-1] {
		next, ok := current.Get(key)
		child, isObj := next.(*evaluator.Object)
		if !ok || !isObj {
			child = evaluator.NewObject()
			current.Set(key, child)
		}
		current = child
	}
	current.Set(keys[len(keys)-1], value)
}

// get(o, path) → any
func stdlibGet(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	path, err := stringArg("get", args, 1)
	if err != nil {
		return nil, err
	}
	return getByPath(arg(args, 0), parsePath(path)), nil
}

// put(o, path, value) → o
func stdlibPut(args []evaluator.Value, _ *evaluator.Env) (evaluator.Value, error) {
	obj, err := objectArg("put", args, 0)
	if err != nil {
		return nil, err
	}
	path, err := stringArg("put", args, 1)
	if err != nil {
		return nil, err
	}
	keys := parsePath(path)
	if len(keys) == 0 {
		return nil, fmt.Errorf("put: path must not be empty")
	}
	putByPath(obj, keys, arg(args, 2))
	return obj, nil
}
