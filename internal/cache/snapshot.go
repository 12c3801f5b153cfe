package cache

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// Snapshot is the YAML form of a Store's contents. Entries are applied in
// order, records first.
type Snapshot struct {
	Records []SnapshotRecord `yaml:"records"`
	Links   []SnapshotLink   `yaml:"links"`
}

type SnapshotRecord struct {
	Entity string         `yaml:"entity"`
	Field  string         `yaml:"field"`
	Args   map[string]any `yaml:"args"`
	Value  any            `yaml:"value"`
}

type SnapshotLink struct {
	Entity string         `yaml:"entity"`
	Field  string         `yaml:"field"`
	Args   map[string]any `yaml:"args"`
	Link   any            `yaml:"link"`
}

// LoadSnapshot decodes a YAML snapshot from r into a new Store.
func LoadSnapshot(r io.Reader) (*Store, error) {
	var snap Snapshot
	if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
		if err == io.EOF {
			return NewStore(), nil
		}
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap.Store()
}

// LoadSnapshotFile reads a YAML snapshot from path.
func LoadSnapshotFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := LoadSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Store builds a Store holding the snapshot's entries.
func (snap *Snapshot) Store() (*Store, error) {
	s := NewStore()
	for i, r := range snap.Records {
		if r.Entity == "" || r.Field == "" {
			return nil, fmt.Errorf("records[%d]: entity and field are required", i)
		}
		s.WriteRecord(r.Entity, r.Field, normalizeYAMLArgs(r.Args), normalizeYAML(r.Value))
	}
	for i, l := range snap.Links {
		if l.Entity == "" || l.Field == "" {
			return nil, fmt.Errorf("links[%d]: entity and field are required", i)
		}
		link := normalizeYAML(l.Link)
		if err := checkLink(link); err != nil {
			return nil, fmt.Errorf("links[%d]: %w", i, err)
		}
		s.WriteLink(l.Entity, l.Field, normalizeYAMLArgs(l.Args), link)
	}
	return s, nil
}

func checkLink(link any) error {
	switch v := link.(type) {
	case nil, string:
		return nil
	case []any:
		for _, item := range v {
			if err := checkLink(item); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("link must be an entity key, null, or a list of links; got %T", link)
	}
}

func normalizeYAMLArgs(args map[string]any) Args {
	if args == nil {
		return nil
	}
	out := make(Args, len(args))
	for k, v := range args {
		out[k] = normalizeYAML(v)
	}
	return out
}

// normalizeYAML converts decoded mappings with non-string keys into
// map[string]any so values encode canonically.
func normalizeYAML(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = normalizeYAML(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[fmt.Sprint(k)] = normalizeYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return v
	}
}
