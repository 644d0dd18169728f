package evaluator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
)

// ValueToJSON marshals a Value to JSON bytes.
// Objects preserve key order. Integral numbers print without a decimal point;
// NaN and the infinities have no JSON form and print as null. Callables print
// as their display string. An object that contains itself is an error.
func ValueToJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v, make(map[*Object]bool)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ValueToJSONString is a convenience that returns a string.
func ValueToJSONString(v Value) string {
	b, err := ValueToJSON(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func writeJSON(buf *bytes.Buffer, v Value, visiting map[*Object]bool) error {
	switch val := v.(type) {
	case nil, Null:
		buf.WriteString("null")

	case Number:
		switch {
		case math.IsNaN(val.Value) || math.IsInf(val.Value, 0):
			buf.WriteString("null")
		case val.Value == math.Trunc(val.Value) && math.Abs(val.Value) < 1<<53:
			buf.WriteString(strconv.FormatInt(int64(val.Value), 10))
		default:
			buf.WriteString(strconv.FormatFloat(val.Value, 'g', -1, 64))
		}

	case String:
		return writeJSONString(buf, val.Value)

	case *Object:
		if visiting[val] {
			return fmt.Errorf("cannot encode a cyclic object")
		}
		visiting[val] = true
		defer delete(visiting, val)

		buf.WriteByte('{')
		for i, kv := range val.Pairs {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, kv.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, kv.Value, visiting); err != nil {
				return err
			}
		}
		buf.WriteByte('}')

	case *Function, *NativeFunction:
		return writeJSONString(buf, ToText(v))

	default:
		buf.WriteString("null")
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// ParseJSONToValue converts a JSON document to a Value. Object key order is
// kept. The value model has no arrays or booleans: arrays become Objects keyed
// "0".."n-1" and booleans become 1 or 0.
func ParseJSONToValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	val, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return val, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		if t {
			return NewNumber(1), nil
		}
		return NewNumber(0), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return NewNumber(f), nil
	case string:
		return NewString(t), nil
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := keyTok.(string)
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			obj := NewObject()
			for i := 0; dec.More(); i++ {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(strconv.Itoa(i), val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}
