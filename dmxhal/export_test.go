package dmxhal

// SetTestHookPreempt installs fn between the two byte writes of Set16 and
// SetRange16. The returned function restores the previous hook.
func SetTestHookPreempt(fn func()) func() {
	old := testHookPreempt
	testHookPreempt = fn
	return func() {
		testHookPreempt = old
	}
}
