package catalog

import (
	"context"
	"iter"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/myrjola/fitrec/internal/errors"
)

// Parse decodes a catalog from YAML, or JSON as its subset, shaped as type → subtype → list of workouts.
//
// The file's key order is preserved, so it has to be decoded node by node rather than into maps.
func Parse(data []byte) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.Join(ErrMalformed, err), "decode yaml")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.Wrap(ErrMalformed, "empty document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.Wrap(ErrMalformed, "top level is not a mapping", slog.Int("line", root.Line))
	}

	var groups []Group
	for typeKey, typeVal := range pairs(root) {
		if typeVal.Kind != yaml.MappingNode {
			return nil, errors.Wrap(ErrMalformed, "type is not a mapping",
				slog.String("type", typeKey.Value), slog.Int("line", typeVal.Line))
		}
		group := Group{Type: Type(typeKey.Value), Subtypes: nil}
		for subKey, subVal := range pairs(typeVal) {
			var workouts []Definition
			if err := subVal.Decode(&workouts); err != nil {
				return nil, errors.Wrap(errors.Join(ErrMalformed, err), "decode workouts",
					slog.String("type", typeKey.Value), slog.String("subtype", subKey.Value))
			}
			group.Subtypes = append(group.Subtypes, Subtype{Name: subKey.Value, Workouts: workouts})
		}
		groups = append(groups, group)
	}

	return New(groups)
}

// pairs iterates over the key and value nodes of a mapping node.
func pairs(n *yaml.Node) iter.Seq2[*yaml.Node, *yaml.Node] {
	return func(yield func(key, value *yaml.Node) bool) {
		for i := 0; i+1 < len(n.Content); i += 2 {
			if !yield(n.Content[i], n.Content[i+1]) {
				return
			}
		}
	}
}

// Load reads and parses the catalog file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog", slog.String("path", path))
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "parse catalog", slog.String("path", path))
	}
	return c, nil
}

// LoadOrDefault loads the catalog at path and falls back to [Default] when it is missing, unreadable or malformed.
func LoadOrDefault(ctx context.Context, path string, logger *slog.Logger) *Catalog {
	if path == "" {
		logger.LogAttrs(ctx, slog.LevelDebug, "no catalog path configured, using built-in catalog")
		return Default()
	}
	c, err := Load(path)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "using built-in catalog", errors.SlogError(err))
		return Default()
	}
	logger.LogAttrs(ctx, slog.LevelDebug, "loaded catalog", slog.String("path", path), slog.Int("workouts", c.Len()))
	return c
}
