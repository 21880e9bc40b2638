package chain

// Reserved names for non-profile property sources.
const (
	CommandLine       = "commandLine"
	SystemProperties  = "systemProperties"
	SystemEnvironment = "systemEnvironment"
	DefaultProperties = "defaultProperties"
)

// Source is a named, ordered map of configuration keys to values. Multiple
// sources form a priority chain; the name is the profile string, or one of
// the reserved names above for non-profile sources.
type Source struct {
	Name       string
	Properties map[string]any
}

// NewSource creates a property source with its own copy of the map.
func NewSource(name string, properties map[string]any) *Source {
	copied := make(map[string]any, len(properties))
	for k, v := range properties {
		copied[k] = v
	}
	return &Source{Name: name, Properties: copied}
}

// Get looks up a key in this source.
func (s *Source) Get(key string) (any, bool) {
	v, ok := s.Properties[key]
	return v, ok
}

// Sources is the ordered property-source chain. Earlier sources have higher
// lookup priority. The chain is assembled once during environment
// preparation and read-only afterwards.
type Sources struct {
	list []*Source
}

// NewSources creates an empty chain.
func NewSources() *Sources {
	return &Sources{}
}

// Append adds a source at the end (lowest priority).
func (s *Sources) Append(src *Source) {
	s.list = append(s.list, src)
}

// Get returns the value for key from the first source that defines it.
func (s *Sources) Get(key string) (any, bool) {
	for _, src := range s.list {
		if v, ok := src.Get(key); ok {
			return v, true
		}
	}
	return nil, false
}

// Origin returns the name of the source that supplies the key, honoring
// chain order.
func (s *Sources) Origin(key string) (string, bool) {
	for _, src := range s.list {
		if _, ok := src.Get(key); ok {
			return src.Name, true
		}
	}
	return "", false
}

// Lookup returns the source with the given name.
func (s *Sources) Lookup(name string) (*Source, bool) {
	for _, src := range s.list {
		if src.Name == name {
			return src, true
		}
	}
	return nil, false
}

// Names returns the source names in chain order.
func (s *Sources) Names() []string {
	names := make([]string, len(s.list))
	for i, src := range s.list {
		names[i] = src.Name
	}
	return names
}

// All returns the sources in chain order. Callers must not mutate them.
func (s *Sources) All() []*Source {
	out := make([]*Source, len(s.list))
	copy(out, s.list)
	return out
}

// Len returns the number of sources in the chain.
func (s *Sources) Len() int {
	return len(s.list)
}

// Flattened returns the first-match-wins union of all sources.
func (s *Sources) Flattened() map[string]any {
	out := make(map[string]any)
	for _, src := range s.list {
		for k, v := range src.Properties {
			if _, ok := out[k]; !ok {
				out[k] = v
			}
		}
	}
	return out
}
