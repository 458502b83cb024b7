package bridge

import (
	"github.com/godbus/dbus/v5"

	"github.com/lbonnet/mpvris/logger"
)

// Error names for the org.freedesktop.DBus.Properties implementation.
const (
	errUnknownInterface = "org.freedesktop.DBus.Error.UnknownInterface"
	errUnknownProperty  = "org.freedesktop.DBus.Error.UnknownProperty"
	errPropertyReadOnly = "org.freedesktop.DBus.Error.PropertyReadOnly"
)

// propertiesEntries is the descriptor list for our own implementation of
// org.freedesktop.DBus.Properties. Getters are computed fresh per request
// from live player state, never served from a store.
func (b *Bridge) propertiesEntries() []tableEntry {
	return []tableEntry{
		{kind: entryStart},

		{kind: entryMethod, name: "Get", inSig: "ss", outSig: "v",
			argNames: []string{"interface_name", "property_name", "value"},
			handler:  b.propGet},
		{kind: entryMethod, name: "GetAll", inSig: "s", outSig: "a{sv}",
			argNames: []string{"interface_name", "properties"},
			handler:  b.propGetAll},
		{kind: entryMethod, name: "Set", inSig: "ssv",
			argNames: []string{"interface_name", "property_name", "value"},
			handler:  b.propSet},

		{kind: entrySignal, name: "PropertiesChanged", inSig: "sa{sv}as",
			argNames: []string{"interface_name", "changed_properties", "invalidated_properties"}},

		{kind: entryEnd},
	}
}

// table resolves one of the two published interfaces by name.
func (b *Bridge) table(iface string) *interfaceTable {
	switch iface {
	case ifaceRoot:
		return b.root
	case ifacePlayer:
		return b.ctrl
	default:
		return nil
	}
}

func (b *Bridge) propGet(iface, name string) (dbus.Variant, *dbus.Error) {
	var out dbus.Variant
	derr := b.invoke(func() *dbus.Error {
		v, e := b.lookupProperty(iface, name)
		out = v
		return e
	})
	return out, derr
}

func (b *Bridge) propGetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	var out map[string]dbus.Variant
	derr := b.invoke(func() *dbus.Error {
		v, e := b.lookupAll(iface)
		out = v
		return e
	})
	return out, derr
}

func (b *Bridge) propSet(iface, name string, value dbus.Variant) *dbus.Error {
	return b.invoke(func() *dbus.Error {
		return b.storeProperty(iface, name, value)
	})
}

func (b *Bridge) lookupProperty(iface, name string) (dbus.Variant, *dbus.Error) {
	t := b.table(iface)
	if t == nil {
		return dbus.Variant{}, dbus.NewError(errUnknownInterface, []interface{}{iface})
	}
	entry, ok := t.props[name]
	if !ok {
		return dbus.Variant{}, dbus.NewError(errUnknownProperty, []interface{}{name})
	}
	v, err := entry.get()
	if err != nil {
		return dbus.Variant{}, dbus.MakeFailedError(err)
	}
	return dbus.MakeVariant(v), nil
}

// lookupAll returns every readable property of the interface; properties
// whose getter fails are skipped rather than failing the whole reply.
func (b *Bridge) lookupAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	t := b.table(iface)
	if t == nil {
		return nil, dbus.NewError(errUnknownInterface, []interface{}{iface})
	}
	out := make(map[string]dbus.Variant, len(t.props))
	for name, entry := range t.props {
		v, err := entry.get()
		if err != nil {
			logger.Warn("[bridge] GetAll: %s.%s: %v", iface, name, err)
			continue
		}
		out[name] = dbus.MakeVariant(v)
	}
	return out, nil
}

func (b *Bridge) storeProperty(iface, name string, value dbus.Variant) *dbus.Error {
	t := b.table(iface)
	if t == nil {
		return dbus.NewError(errUnknownInterface, []interface{}{iface})
	}
	entry, ok := t.props[name]
	if !ok {
		return dbus.NewError(errUnknownProperty, []interface{}{name})
	}
	if !entry.writable {
		return dbus.NewError(errPropertyReadOnly, []interface{}{name})
	}
	return entry.set(value)
}
