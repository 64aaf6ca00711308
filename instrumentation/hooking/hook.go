// Package hooking lets observers attach to the scheduler and the test runner
// without those knowing what the observers do.
package hooking

// HookPos names a point at which hooks fire.
type HookPos struct {
	Name string
}

// HookCtx describes one firing of a hook.
type HookCtx struct {
	// Domain is the object that fired the hook.
	Domain Hookable

	// Pos is where in the domain's lifecycle the hook fired.
	Pos *HookPos

	// Item is the subject of the hook, for example a test result or the
	// current virtual time.
	Item any

	// Detail is optional extra data.
	Detail any
}

// Hookable is implemented by objects that accept hooks.
type Hookable interface {
	// AcceptHook registers a hook. Hooks are registered before a run starts
	// and cannot be removed.
	AcceptHook(hook Hook)

	// NumHooks returns the number of registered hooks.
	NumHooks() int

	// InvokeHook calls every registered hook with ctx.
	InvokeHook(ctx HookCtx)
}

// Hook is called by a Hookable.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function into a Hook.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// HookableBase implements Hookable and is meant to be embedded.
type HookableBase struct {
	hookList []Hook
}

// NewHookableBase creates an empty HookableBase.
func NewHookableBase() *HookableBase {
	return &HookableBase{}
}

// NumHooks returns the number of registered hooks.
func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

// AcceptHook registers a hook. Registering the same hook twice panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	if _, isFunc := hook.(HookFunc); !isFunc {
		for _, registered := range h.hookList {
			if registered == hook {
				panic("duplicated hook")
			}
		}
	}

	h.hookList = append(h.hookList, hook)
}

// InvokeHook calls every registered hook in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}

var _ Hookable = (*HookableBase)(nil)
