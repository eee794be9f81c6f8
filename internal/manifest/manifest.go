// Package manifest loads binding manifests written in HCL and seeds a
// registry with them. A manifest declares namespaces of key/value
// bindings:
//
//	namespace "default" {
//	  binding "retries" {
//	    value = 3
//	  }
//	}
//
// Values are HCL literals: strings, numbers, bools, lists, and objects.
// Numbers decode as float64, lists as []any, objects as map[string]any.
package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/depscope"
	"github.com/vk/depscope/internal/ctxlog"
	"github.com/vk/depscope/internal/fsutil"
)

// Binding is one parsed key/value pair destined for a namespace.
type Binding struct {
	Namespace string
	Key       string
	Value     any
}

// rootSchema defines the top-level structure of a manifest, expecting one
// or more 'namespace' blocks.
type rootSchema struct {
	Namespaces []*namespaceBlock `hcl:"namespace,block"`
}

// namespaceBlock represents a single 'namespace' block for decoding purposes.
type namespaceBlock struct {
	Name     string          `hcl:"name,label"`
	Bindings []*bindingBlock `hcl:"binding,block"`
}

// bindingBlock represents a single 'binding' block for decoding purposes.
type bindingBlock struct {
	Key   string    `hcl:"key,label"`
	Value cty.Value `hcl:"value"`
}

// Load parses every manifest reachable from the given paths. Each path
// may be a single .hcl file or a directory searched recursively.
func Load(ctx context.Context, paths ...string) ([]Binding, error) {
	logger := ctxlog.FromContext(ctx)
	parser := hclparse.NewParser()

	var bindings []Binding
	for _, path := range paths {
		files, err := fsutil.CollectFiles(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("collecting manifests under %s: %w", path, err)
		}
		if len(files) == 0 {
			logger.Warn("No .hcl manifest files found in path.", "path", path)
			continue
		}
		for _, file := range files {
			hclFile, diags := parser.ParseHCLFile(file)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to parse manifest %s: %w", file, diags)
			}

			var root rootSchema
			if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode manifest %s: %w", file, diags)
			}

			for _, ns := range root.Namespaces {
				for _, b := range ns.Bindings {
					value, err := ctyValueToInterface(b.Value)
					if err != nil {
						return nil, fmt.Errorf("manifest %s: binding %q in namespace %q: %w", file, b.Key, ns.Name, err)
					}
					bindings = append(bindings, Binding{Namespace: ns.Name, Key: b.Key, Value: value})
					logger.Debug("Parsed manifest binding.", "file", file, "namespace", ns.Name, "key", b.Key)
				}
			}
		}
	}
	return bindings, nil
}

// Seed provides every parsed binding on reg within the caller's active
// scope.
func Seed(ctx context.Context, reg *depscope.Registry, bindings []Binding) {
	for _, b := range bindings {
		reg.Provide(ctx, b.Key, b.Value, depscope.InNamespace(b.Namespace))
	}
}

// ctyValueToInterface converts a cty.Value to a Go interface{}.
func ctyValueToInterface(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	if val.Type().IsPrimitiveType() {
		switch val.Type() {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			f, _ := val.AsBigFloat().Float64()
			return f, nil
		case cty.Bool:
			return val.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type: %s", val.Type().FriendlyName())
		}
	}
	if val.Type().IsObjectType() || val.Type().IsMapType() {
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			converted, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = converted
		}
		return out, nil
	}
	if val.Type().IsTupleType() || val.Type().IsListType() {
		var out []any
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			converted, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported cty.Type for conversion: %s", val.Type().FriendlyName())
}
