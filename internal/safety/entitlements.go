package safety

// StaticEntitlements is the config-driven entitlement check: the flag is
// resolved once at startup.
type StaticEntitlements bool

// CanViewUnfiltered reports whether the viewer may see unfiltered content.
func (s StaticEntitlements) CanViewUnfiltered() bool { return bool(s) }
