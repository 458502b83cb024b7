// Package dbusutil holds small helpers for working with D-Bus variants.
package dbusutil

import "github.com/godbus/dbus/v5"

// Bool extracts a bool from a dbus.Variant.
func Bool(v dbus.Variant) (bool, bool) {
	val, ok := v.Value().(bool)
	return val, ok
}

// String extracts a string from a dbus.Variant.
func String(v dbus.Variant) (string, bool) {
	val, ok := v.Value().(string)
	return val, ok
}

// Float64 extracts a float64 from a dbus.Variant.
func Float64(v dbus.Variant) (float64, bool) {
	val, ok := v.Value().(float64)
	return val, ok
}
