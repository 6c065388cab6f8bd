// Package host embeds the sandboxed Lua state avatar scripts run in and
// installs the extension surface on top of it: string/table/math/bit32
// extensions, read-only enums, the keybind API, the pings broadcast table
// and the persistent config API.
//
// The Engine type is the composition root. It owns the Lua state, the
// keybind registry and the persistent store, and serializes all access:
// scripts, tick callbacks and incoming network pings all funnel through
// its lock.
package host
