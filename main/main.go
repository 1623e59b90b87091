// Command copperwire encodes and decodes wire structures described by
// a schemafile document. It is glue around the library's two entry
// points: decode reads wire bytes on stdin and prints JSON, encode
// reads JSON on stdin and writes wire bytes.
//
//	copperwire --schema proto.yaml --type packet decode < packet.bin
//	copperwire --schema proto.yaml --type packet --hex encode < packet.json
package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/rawbytedev/copperwire"
	"github.com/rawbytedev/copperwire/pkg/schemafile"
)

func main() {
	schemaPath := pflag.String("schema", "", "path to the schemafile document")
	typeName := pflag.String("type", "", "declared type to encode or decode")
	useHex := pflag.Bool("hex", false, "wire bytes on stdin/stdout are hex")
	pflag.Parse()

	logger := zap.Must(zap.NewDevelopment())
	defer logger.Sync()

	if *schemaPath == "" || *typeName == "" || pflag.NArg() != 1 {
		logger.Fatal("usage: copperwire --schema FILE --type NAME encode|decode")
	}

	schema, err := schemafile.LoadFile(*schemaPath)
	if err != nil {
		logger.Fatal("loading schema", zap.String("schema", *schemaPath), zap.Error(err))
	}
	coder, ok := schema.Type(*typeName)
	if !ok {
		logger.Fatal("unknown type",
			zap.String("type", *typeName),
			zap.String("declared", strings.Join(schema.Types(), ", ")))
	}

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		logger.Fatal("reading stdin", zap.Error(err))
	}

	switch pflag.Arg(0) {
	case "decode":
		err = runDecode(coder, input, *useHex, os.Stdout)
	case "encode":
		err = runEncode(coder, input, *useHex, os.Stdout)
	default:
		logger.Fatal("unknown command", zap.String("command", pflag.Arg(0)))
	}
	if err != nil {
		logger.Fatal("codec failure",
			zap.String("type", *typeName),
			zap.Error(err))
	}
}

func runDecode(coder copperwire.Coder, input []byte, useHex bool, out io.Writer) error {
	if useHex {
		var err error
		input, err = hex.DecodeString(strings.TrimSpace(string(input)))
		if err != nil {
			return fmt.Errorf("hex input: %w", err)
		}
	}
	value, err := coder.ReadFrom(bytes.NewReader(input))
	if err != nil {
		return err
	}
	encoded, err := json.MarshalIndent(toJSON(coder, value), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}

func runEncode(coder copperwire.Coder, input []byte, useHex bool, out io.Writer) error {
	var parsed any
	if err := json.Unmarshal(input, &parsed); err != nil {
		return fmt.Errorf("json input: %w", err)
	}
	value, err := fromJSON(coder, parsed)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := coder.WriteTo(value, &buf); err != nil {
		return err
	}
	if useHex {
		_, err := fmt.Fprintln(out, hex.EncodeToString(buf.Bytes()))
		return err
	}
	_, err = out.Write(buf.Bytes())
	return err
}

// toJSON rewrites a decoded value into plain JSON-friendly data,
// guided by the schema: choices become {tag, value} objects, byte
// strings become strings, enum members resolve to their names.
func toJSON(coder copperwire.Coder, value any) any {
	switch c := coder.(type) {
	case *copperwire.Record:
		rv, ok := value.(copperwire.RecordValue)
		if !ok {
			return value
		}
		out := make(map[string]any, len(rv))
		for _, m := range c.Members() {
			out[m.Name] = toJSON(m.Coder, rv[m.Name])
		}
		return out
	case *copperwire.Choice:
		cv, ok := value.(copperwire.ChoiceValue)
		if !ok {
			return value
		}
		variant, _ := c.Variant(cv.Tag)
		return map[string]any{
			"tag":   cv.Tag,
			"value": toJSON(variant, cv.Value),
		}
	case *copperwire.Sequence:
		items, ok := value.([]any)
		if !ok {
			return value
		}
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = toJSON(c.Element(), item)
		}
		return out
	case *copperwire.String:
		if b, ok := value.([]byte); ok {
			return string(b)
		}
		return value
	case *copperwire.Enum:
		if v, ok := value.(uint64); ok {
			if name, known := c.Name(v); known {
				return name
			}
		}
		return value
	default:
		return value
	}
}

// fromJSON is the inverse of toJSON: it rebuilds coder-shaped values
// from parsed JSON, so the coder's own validation has real types to
// work on.
func fromJSON(coder copperwire.Coder, parsed any) (any, error) {
	switch c := coder.(type) {
	case *copperwire.Record:
		fields, ok := parsed.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected a JSON object for a record, got %T", parsed)
		}
		converted := make(map[string]any, len(fields))
		for name, raw := range fields {
			member, ok := c.Member(name)
			if !ok {
				return nil, fmt.Errorf("%s is not a member of this record", name)
			}
			v, err := fromJSON(member, raw)
			if err != nil {
				return nil, fmt.Errorf("member %s: %w", name, err)
			}
			converted[name] = v
		}
		// Omitted members pick up their schema defaults.
		value, err := c.NewValue(converted)
		if err != nil {
			return nil, err
		}
		return value, nil
	case *copperwire.Choice:
		obj, ok := parsed.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected a JSON object for a choice, got %T", parsed)
		}
		tagRaw, ok := obj["tag"]
		if !ok {
			return nil, fmt.Errorf("a choice value needs a tag")
		}
		tagF, ok := tagRaw.(float64)
		if !ok || tagF < 0 || tagF != float64(uint64(tagF)) {
			return nil, fmt.Errorf("tag %v is not an unsigned integer", tagRaw)
		}
		tag := uint64(tagF)
		variant, ok := c.Variant(tag)
		if !ok {
			return nil, fmt.Errorf("%#x is not a registered tag", tag)
		}
		var value any
		if raw, present := obj["value"]; present {
			var err error
			value, err = fromJSON(variant, raw)
			if err != nil {
				return nil, fmt.Errorf("variant %#x: %w", tag, err)
			}
		}
		cv, err := c.NewValue(tag, value)
		if err != nil {
			return nil, err
		}
		return cv, nil
	case *copperwire.Sequence:
		items, ok := parsed.([]any)
		if !ok {
			return nil, fmt.Errorf("expected a JSON array for a sequence, got %T", parsed)
		}
		converted := make([]any, len(items))
		for i, item := range items {
			v, err := fromJSON(c.Element(), item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			converted[i] = v
		}
		return converted, nil
	case *copperwire.String:
		if s, ok := parsed.(string); ok {
			return []byte(s), nil
		}
		return parsed, nil
	case *copperwire.Enum:
		if name, ok := parsed.(string); ok {
			value, known := c.Value(name)
			if !known {
				return nil, fmt.Errorf("%s is not an enum member", name)
			}
			return value, nil
		}
		return parsed, nil
	default:
		return parsed, nil
	}
}
