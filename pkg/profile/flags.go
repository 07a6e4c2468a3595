package profile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/iancoleman/strcase"

	"github.com/bbqsrc/cargo-pbuild/pkg/schema"
)

// FlagMap is an ordered mapping from projected flag name to typed value.
type FlagMap = orderedmap.OrderedMap[string, schema.Value]

// CfgFlagsMap projects the normalized configuration into a flat flag map.
// Single-valued categories emit one entry keyed by the snake-cased type key
// whose value is the selected field name; every other category emits one
// Bool(true) entry per enabled field keyed `category_field`. Properties emit
// `category_field_property` entries. Identical composed keys overwrite
// earlier entries while keeping their original position.
func (p *Profile) CfgFlagsMap() *FlagMap {
	out := orderedmap.NewOrderedMap[string, schema.Value]()
	for el := p.Config.Front(); el != nil; el = el.Next() {
		key := el.Key
		_, typeSpec, ok := p.Spec.TypeByKey(key)
		if !ok {
			continue
		}
		for fel := el.Value.Front(); fel != nil; fel = fel.Next() {
			field := fel.Key
			if typeSpec.Single {
				out.Set(strcase.ToSnake(string(key)), schema.NewString(string(field)))
			} else {
				out.Set(strcase.ToSnake(fmt.Sprintf("%s_%s", key, field)), schema.NewBool(true))
			}
			for pel := fel.Value.Front(); pel != nil; pel = pel.Next() {
				out.Set(strcase.ToSnake(fmt.Sprintf("%s_%s_%s", key, field, pel.Key)), pel.Value)
			}
		}
	}
	return out
}

// RustcCfgFlags renders the flag map as rustc `--cfg` argument tokens.
// Entries holding Bool(false) are skipped entirely.
func (p *Profile) RustcCfgFlags() []string {
	var out []string
	flags := p.CfgFlagsMap()
	for el := flags.Front(); el != nil; el = el.Next() {
		value := el.Value
		if value.Type() == schema.TypeBool && !value.Bool() {
			continue
		}
		out = append(out, "--cfg", renderCfg(el.Key, value))
	}
	return out
}

func renderCfg(key string, value schema.Value) string {
	switch value.Type() {
	case schema.TypeString:
		return fmt.Sprintf("'%s=%s'", key, strconv.Quote(value.Str()))
	case schema.TypeBool:
		return fmt.Sprintf("'%s'", key)
	case schema.TypeUUID:
		return fmt.Sprintf("'%s=%q'", key, value.UUID().String())
	default:
		return fmt.Sprintf("'%s=%s'", key, value.String())
	}
}

// CargoFlags renders one cargo argument group per binary and library target.
// A binary of the form `package/name` selects the package before the binary.
func (p *Profile) CargoFlags() [][]string {
	var out [][]string

	for _, bin := range p.Bins {
		var group []string
		if pkg, name, found := strings.Cut(bin, "/"); found {
			group = append(group, "--package", pkg, "--bin", name)
		} else {
			group = append(group, "--bin", bin)
		}
		out = append(out, appendFeatures(group, p.Features))
	}

	for _, lib := range p.Libs {
		group := []string{"--lib", lib}
		out = append(out, appendFeatures(group, p.Features))
	}

	return out
}

func appendFeatures(group []string, features []string) []string {
	if len(features) == 0 {
		return group
	}
	return append(group, "--features", `"`+strings.Join(features, `","`)+`"`)
}
