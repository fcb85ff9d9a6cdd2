package aamp

import "github.com/switchtools/bgpak/internal/namehash"

// ParameterObject is an ordered Name→Parameter mapping. Iteration order
// (Names) is insertion order, which is also the order the writer emits
// parameter headers in.
type ParameterObject struct {
	Name       uint32
	paramOrder []uint32
	params     map[uint32]Parameter
}

// NewParameterObject returns an empty object keyed by name.
func NewParameterObject(name uint32) *ParameterObject {
	return &ParameterObject{Name: name, params: make(map[uint32]Parameter)}
}

// Set inserts or replaces the parameter keyed by name, preserving the
// position of the first insertion.
func (o *ParameterObject) Set(name uint32, p Parameter) {
	if _, exists := o.params[name]; !exists {
		o.paramOrder = append(o.paramOrder, name)
	}
	o.params[name] = p
}

// Get looks up a parameter by name.
func (o *ParameterObject) Get(name uint32) (Parameter, bool) {
	p, ok := o.params[name]
	return p, ok
}

// Names returns the parameter names in insertion order.
func (o *ParameterObject) Names() []uint32 { return o.paramOrder }

// Len reports the number of parameters in the object.
func (o *ParameterObject) Len() int { return len(o.paramOrder) }

// ParameterList is an ordered tree node holding child lists and objects.
type ParameterList struct {
	Name uint32

	listOrder []uint32
	lists     map[uint32]*ParameterList

	objectOrder []uint32
	objects     map[uint32]*ParameterObject
}

// NewParameterList returns an empty list keyed by name.
func NewParameterList(name uint32) *ParameterList {
	return &ParameterList{
		Name:    name,
		lists:   make(map[uint32]*ParameterList),
		objects: make(map[uint32]*ParameterObject),
	}
}

// SetList inserts or replaces a child list, preserving first-insertion order.
func (l *ParameterList) SetList(child *ParameterList) {
	if _, exists := l.lists[child.Name]; !exists {
		l.listOrder = append(l.listOrder, child.Name)
	}
	l.lists[child.Name] = child
}

// SetObject inserts or replaces a child object, preserving first-insertion
// order.
func (l *ParameterList) SetObject(obj *ParameterObject) {
	if _, exists := l.objects[obj.Name]; !exists {
		l.objectOrder = append(l.objectOrder, obj.Name)
	}
	l.objects[obj.Name] = obj
}

// GetList looks up a child list by name.
func (l *ParameterList) GetList(name uint32) (*ParameterList, bool) {
	c, ok := l.lists[name]
	return c, ok
}

// GetObject looks up a child object by name.
func (l *ParameterList) GetObject(name uint32) (*ParameterObject, bool) {
	c, ok := l.objects[name]
	return c, ok
}

// Lists returns the child lists in insertion order.
func (l *ParameterList) Lists() []*ParameterList {
	out := make([]*ParameterList, len(l.listOrder))
	for i, name := range l.listOrder {
		out[i] = l.lists[name]
	}
	return out
}

// Objects returns the child objects in insertion order.
func (l *ParameterList) Objects() []*ParameterObject {
	out := make([]*ParameterObject, len(l.objectOrder))
	for i, name := range l.objectOrder {
		out[i] = l.objects[name]
	}
	return out
}

// RootName is the fixed AAMP hash every ParameterIO's root list must carry.
var RootName = namehash.Aamp("param_root")

// ParameterIO is the top-level AAMP document: a version, a free-form data
// type tag, and the root parameter list.
type ParameterIO struct {
	Version  uint32
	DataType string
	Root     *ParameterList
}

// NewParameterIO returns an empty document with the conventional root name.
func NewParameterIO(dataType string) *ParameterIO {
	return &ParameterIO{Version: 2, DataType: dataType, Root: NewParameterList(RootName)}
}
