// Package safety holds the process-wide NSFW visibility filter. It is the
// one piece of long-lived mutable shared state in the system, so it uses a
// publish/notify discipline: consumers register a reaction instead of
// reading and caching the flag.
package safety

import (
	"log/slog"

	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/domain"
)

// Filter is the reactive NSFW-visibility toggle. Lifecycle: read from the
// preference stores at init, toggled by explicit user action gated by an
// entitlement check, written back to both stores on every toggle.
type Filter struct {
	visible bool

	entitlements domain.Entitlements
	upsell       domain.Upsell
	session      domain.PreferenceStore
	durable      domain.PreferenceStore
	logger       *slog.Logger

	subscribers []func(visible bool)
}

// New initializes the filter from the two preference tiers. The
// session-scoped value wins over the durable one; absent both, content
// starts hidden.
func New(entitlements domain.Entitlements, upsell domain.Upsell, session, durable domain.PreferenceStore, logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Filter{
		entitlements: entitlements,
		upsell:       upsell,
		session:      session,
		durable:      durable,
		logger:       logger,
	}
	if v, ok := session.SafetyVisible(); ok {
		f.visible = v
	} else if v, ok := durable.SafetyVisible(); ok {
		f.visible = v
	}
	// An entitlement lost since the preference was written must not leak
	// unfiltered content.
	if f.visible && !entitlements.CanViewUnfiltered() {
		f.visible = false
	}
	return f
}

// SetUpsell attaches the upsell collaborator. The UI that renders the
// upsell is built after the filter, so it registers itself here.
func (f *Filter) SetUpsell(u domain.Upsell) { f.upsell = u }

// Visible reports the current state. Consumers that need to stay consistent
// across toggles must Subscribe instead of caching this value.
func (f *Filter) Visible() bool { return f.visible }

// Subscribe registers a reaction invoked on every state transition. The
// callback runs synchronously on the toggling goroutine.
func (f *Filter) Subscribe(fn func(visible bool)) {
	f.subscribers = append(f.subscribers, fn)
}

// Toggle flips the filter. The Hidden -> Visible transition requires the
// viewer to be entitled; ineligible viewers are redirected to the upsell
// collaborator and the state does not change. Returns whether the state
// changed.
func (f *Filter) Toggle() bool {
	if !f.visible && !f.entitlements.CanViewUnfiltered() {
		f.logger.Info("safety toggle denied, redirecting to upsell", "error", domain.ErrEntitlementRequired)
		if f.upsell != nil {
			f.upsell.ShowUpsell()
		}
		return false
	}
	f.visible = !f.visible
	f.persist()
	for _, fn := range f.subscribers {
		fn(f.visible)
	}
	f.logger.Info("safety filter toggled", "visible", f.visible)
	return true
}

func (f *Filter) persist() {
	if err := f.session.SetSafetyVisible(f.visible); err != nil {
		f.logger.Error("failed to persist session safety preference", "error", err)
	}
	if err := f.durable.SetSafetyVisible(f.visible); err != nil {
		f.logger.Error("failed to persist durable safety preference", "error", err)
	}
}
