package autoresize

import "strconv"

// Length is a layout size in terminal cells.
type Length int

// Auto lets the layout pick the size from content.
const Auto Length = -1

func (l Length) String() string {
	if l == Auto {
		return "auto"
	}
	return strconv.Itoa(int(l))
}

// Style is a set of layout properties applied to an element.
type Style interface {
	SetProperty(name string, v Length)
	RemoveProperty(name string)
	Property(name string) (Length, bool)
}

// StyleMap is an in-memory Style. OnChange, when set, runs after every
// mutation so the owner can re-flow before the next measurement.
type StyleMap struct {
	props    map[string]Length
	OnChange func(name string)
}

func NewStyleMap() *StyleMap {
	return &StyleMap{props: map[string]Length{}}
}

func (s *StyleMap) SetProperty(name string, v Length) {
	if s.props == nil {
		s.props = map[string]Length{}
	}
	s.props[name] = v
	if s.OnChange != nil {
		s.OnChange(name)
	}
}

func (s *StyleMap) RemoveProperty(name string) {
	if _, ok := s.props[name]; !ok {
		return
	}
	delete(s.props, name)
	if s.OnChange != nil {
		s.OnChange(name)
	}
}

func (s *StyleMap) Property(name string) (Length, bool) {
	v, ok := s.props[name]
	return v, ok
}
