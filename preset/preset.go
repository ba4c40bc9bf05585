// Package preset provides default utility tables and the functions they
// refer to.
package preset

import (
	_ "embed"
	"fmt"

	"go.uber.org/zap"

	"ucc/engine"
	"ucc/tables"
)

//go:embed tables.yaml
var tablesYAML []byte

// Document returns the embedded default tables as written.
func Document() []byte {
	return tablesYAML
}

// UtilityFunctions returns the utility functions table files may refer to.
func UtilityFunctions() map[string]engine.UtilityFunc {
	return map[string]engine.UtilityFunc{
		"spacing":   spacing,
		"size":      size,
		"grid-cols": gridCols,
		"opacity":   opacity,
		"truncate":  truncate,
	}
}

// VariantFunctions returns the variant functions table files may refer to.
func VariantFunctions() map[string]engine.VariantFunc {
	return map[string]engine.VariantFunc{
		"media":    media,
		"supports": supports,
		"nth":      nth,
		"aria":     aria,
		"data":     data,
	}
}

// NewLoader returns a table loader which knows the preset functions.
func NewLoader(log *zap.Logger) *tables.Loader {
	return tables.NewLoader(log,
		tables.WithUtilityFunctions(UtilityFunctions()),
		tables.WithVariantFunctions(VariantFunctions()))
}

// Load decodes the embedded default tables.
func Load(log *zap.Logger) (*tables.Tables, error) {
	t, err := NewLoader(log).Load(tablesYAML, tables.FormatYaml)
	if err != nil {
		return nil, fmt.Errorf("unable to load preset tables: %w", err)
	}
	return t, nil
}
