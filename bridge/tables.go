package bridge

import (
	"fmt"
	"reflect"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// The exported object model is assembled from ordered, tagged descriptor
// lists. Each list must open with a start marker and close with an end
// marker; entry order is preserved into the introspection data so the
// advertised interface matches the MPRIS specification member for member.

type entryKind int

const (
	entryStart entryKind = iota
	entryMethod
	entryPropRead
	entryPropReadWrite
	entrySignal
	entryEnd
)

type propGetter func() (interface{}, error)
type propSetter func(v dbus.Variant) *dbus.Error

type tableEntry struct {
	kind entryKind
	name string

	// methods and signals
	inSig    string
	outSig   string
	argNames []string // in-args then out-args, one per type in the signatures
	handler  interface{}

	// properties
	propSig string
	get     propGetter
	set     propSetter
}

// propEntry is the dispatch record behind one property member.
type propEntry struct {
	sig      string
	writable bool
	get      propGetter
	set      propSetter
}

// interfaceTable is the concrete structure the bus registration calls
// expect: the method map for ExportMethodTable, the property map consumed
// by the Properties implementation, and the introspection model.
type interfaceTable struct {
	name    string
	methods map[string]interface{}
	props   map[string]*propEntry
	intro   introspect.Interface
}

// buildInterface validates an ordered entry list and assembles the
// interface table. Any malformed entry is a startup-fatal error.
func buildInterface(name string, entries []tableEntry) (*interfaceTable, error) {
	if len(entries) < 2 {
		return nil, &TableError{Interface: name, Reason: "missing start/end markers"}
	}
	if entries[0].kind != entryStart {
		return nil, &TableError{Interface: name, Reason: "first entry is not a start marker"}
	}
	if entries[len(entries)-1].kind != entryEnd {
		return nil, &TableError{Interface: name, Reason: "last entry is not an end marker"}
	}

	t := &interfaceTable{
		name:    name,
		methods: make(map[string]interface{}),
		props:   make(map[string]*propEntry),
		intro:   introspect.Interface{Name: name},
	}

	for _, e := range entries[1 : len(entries)-1] {
		if e.kind == entryStart || e.kind == entryEnd {
			return nil, &TableError{Interface: name, Reason: "stray marker inside entry list"}
		}
		if e.name == "" {
			return nil, &TableError{Interface: name, Reason: "unnamed entry"}
		}

		switch e.kind {
		case entryMethod:
			if err := validateMethod(name, e); err != nil {
				return nil, err
			}
			t.methods[e.name] = e.handler
			t.intro.Methods = append(t.intro.Methods, introspect.Method{
				Name: e.name,
				Args: methodArgs(e),
			})

		case entryPropRead, entryPropReadWrite:
			if err := validateProperty(name, e); err != nil {
				return nil, err
			}
			access := "read"
			if e.kind == entryPropReadWrite {
				access = "readwrite"
			}
			t.props[e.name] = &propEntry{
				sig:      e.propSig,
				writable: e.kind == entryPropReadWrite,
				get:      e.get,
				set:      e.set,
			}
			t.intro.Properties = append(t.intro.Properties, introspect.Property{
				Name:   e.name,
				Type:   e.propSig,
				Access: access,
			})

		case entrySignal:
			args, err := signalArgs(name, e)
			if err != nil {
				return nil, err
			}
			t.intro.Signals = append(t.intro.Signals, introspect.Signal{
				Name: e.name,
				Args: args,
			})

		default:
			return nil, &TableError{Interface: name, Member: e.name, Reason: "unknown entry kind"}
		}
	}

	return t, nil
}

func validateMethod(iface string, e tableEntry) error {
	if e.handler == nil {
		return &TableError{Interface: iface, Member: e.name, Reason: "nil method handler"}
	}
	if reflect.TypeOf(e.handler).Kind() != reflect.Func {
		return &TableError{Interface: iface, Member: e.name, Reason: "method handler is not a function"}
	}
	in, err := sigArity(e.inSig)
	if err != nil {
		return &TableError{Interface: iface, Member: e.name, Reason: err.Error()}
	}
	out, err := sigArity(e.outSig)
	if err != nil {
		return &TableError{Interface: iface, Member: e.name, Reason: err.Error()}
	}
	if len(e.argNames) != in+out {
		return &TableError{
			Interface: iface,
			Member:    e.name,
			Reason:    fmt.Sprintf("%d argument names for %d arguments", len(e.argNames), in+out),
		}
	}
	return nil
}

func validateProperty(iface string, e tableEntry) error {
	if _, err := sigArity(e.propSig); err != nil {
		return &TableError{Interface: iface, Member: e.name, Reason: err.Error()}
	}
	if e.propSig == "" {
		return &TableError{Interface: iface, Member: e.name, Reason: "empty property signature"}
	}
	if e.get == nil {
		return &TableError{Interface: iface, Member: e.name, Reason: "property without getter"}
	}
	if e.kind == entryPropReadWrite && e.set == nil {
		return &TableError{Interface: iface, Member: e.name, Reason: "writable property without setter"}
	}
	if e.kind == entryPropRead && e.set != nil {
		return &TableError{Interface: iface, Member: e.name, Reason: "read-only property with setter"}
	}
	return nil
}

// methodArgs builds the introspection arguments, in-args first, matching
// the order of argNames.
func methodArgs(e tableEntry) []introspect.Arg {
	var args []introspect.Arg
	idx := 0
	for _, typ := range splitSignature(e.inSig) {
		args = append(args, introspect.Arg{Name: e.argNames[idx], Type: typ, Direction: "in"})
		idx++
	}
	for _, typ := range splitSignature(e.outSig) {
		args = append(args, introspect.Arg{Name: e.argNames[idx], Type: typ, Direction: "out"})
		idx++
	}
	return args
}

func signalArgs(iface string, e tableEntry) ([]introspect.Arg, error) {
	n, err := sigArity(e.inSig)
	if err != nil {
		return nil, &TableError{Interface: iface, Member: e.name, Reason: err.Error()}
	}
	if len(e.argNames) != n {
		return nil, &TableError{
			Interface: iface,
			Member:    e.name,
			Reason:    fmt.Sprintf("%d argument names for %d arguments", len(e.argNames), n),
		}
	}
	var args []introspect.Arg
	for i, typ := range splitSignature(e.inSig) {
		args = append(args, introspect.Arg{Name: e.argNames[i], Type: typ})
	}
	return args, nil
}

// sigArity returns the number of complete types in a D-Bus signature.
func sigArity(sig string) (int, error) {
	types := splitSignature(sig)
	if types == nil && sig != "" {
		return 0, fmt.Errorf("malformed signature %q", sig)
	}
	return len(types), nil
}

// splitSignature cuts a D-Bus signature into complete single types.
// Returns nil for a malformed signature.
func splitSignature(sig string) []string {
	var types []string
	for i := 0; i < len(sig); {
		end := typeEnd(sig, i)
		if end < 0 {
			return nil
		}
		types = append(types, sig[i:end])
		i = end
	}
	return types
}

// typeEnd returns the index just past the complete type starting at i,
// or -1 when malformed.
func typeEnd(sig string, i int) int {
	if i >= len(sig) {
		return -1
	}
	switch c := sig[i]; c {
	case 'y', 'b', 'n', 'q', 'i', 'u', 'x', 't', 'd', 'h', 's', 'o', 'g', 'v':
		return i + 1
	case 'a':
		if i+1 < len(sig) && sig[i+1] == '{' {
			// dict entry: key must be a basic type, value any complete type
			k := typeEnd(sig, i+2)
			if k != i+3 { // basic types are single characters
				return -1
			}
			v := typeEnd(sig, k)
			if v < 0 || v >= len(sig) || sig[v] != '}' {
				return -1
			}
			return v + 1
		}
		elem := typeEnd(sig, i+1)
		if elem < 0 {
			return -1
		}
		return elem
	case '(':
		j := i + 1
		for j < len(sig) && sig[j] != ')' {
			j = typeEnd(sig, j)
			if j < 0 {
				return -1
			}
		}
		if j >= len(sig) {
			return -1
		}
		return j + 1
	default:
		return -1
	}
}
