package cache

import "sync"

// Store is an in-memory normalized cache. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	entities map[string]*entity
}

type entity struct {
	order   []string // field keys in first-write order
	infos   map[string]FieldInfo
	records map[string]any
	links   map[string]any
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{entities: make(map[string]*entity)}
}

// WriteRecord stores a scalar value for fieldName with args on entityKey.
func (s *Store) WriteRecord(entityKey, fieldName string, args Args, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, fieldKey := s.touch(entityKey, fieldName, args)
	delete(e.links, fieldKey)
	e.records[fieldKey] = value
}

// WriteLink stores a link for fieldName with args on entityKey. A link is an
// entity key, nil, or a []any of links.
func (s *Store) WriteLink(entityKey, fieldName string, args Args, link any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, fieldKey := s.touch(entityKey, fieldName, args)
	delete(e.records, fieldKey)
	e.links[fieldKey] = link
}

func (s *Store) touch(entityKey, fieldName string, args Args) (*entity, string) {
	e := s.entities[entityKey]
	if e == nil {
		e = &entity{
			infos:   make(map[string]FieldInfo),
			records: make(map[string]any),
			links:   make(map[string]any),
		}
		s.entities[entityKey] = e
	}
	norm := NormalizeArgs(args)
	fieldKey := KeyOfField(fieldName, norm)
	if _, ok := e.infos[fieldKey]; !ok {
		e.order = append(e.order, fieldKey)
		e.infos[fieldKey] = FieldInfo{FieldName: fieldName, FieldKey: fieldKey, Arguments: norm}
	}
	return e, fieldKey
}

// Resolve implements Cache.
func (s *Store) Resolve(parent string, fieldName string, args Args) any {
	return s.ResolveFieldByKey(parent, KeyOfField(fieldName, args))
}

// ResolveFieldByKey implements Cache.
func (s *Store) ResolveFieldByKey(entityKey, fieldKey string) any {
	v, _ := s.Lookup(entityKey, fieldKey)
	return v
}

// Lookup is like ResolveFieldByKey but also reports whether anything was
// stored for the field key, telling a stored null apart from a miss.
func (s *Store) Lookup(entityKey, fieldKey string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.entities[entityKey]
	if e == nil {
		return nil, false
	}
	if v, ok := e.links[fieldKey]; ok {
		return v, true
	}
	v, ok := e.records[fieldKey]
	return v, ok
}

// InspectFields implements Cache.
func (s *Store) InspectFields(entityKey string) []FieldInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.entities[entityKey]
	if e == nil {
		return nil
	}
	out := make([]FieldInfo, 0, len(e.order))
	for _, key := range e.order {
		info := e.infos[key]
		if info.Arguments != nil {
			args := make(Args, len(info.Arguments))
			for k, v := range info.Arguments {
				args[k] = v
			}
			info.Arguments = args
		}
		out = append(out, info)
	}
	return out
}
