package testsupport

import (
	"context"
	"testing"

	"whorl/internal/session"
	"whorl/internal/zkfp"
	"whorl/internal/zkfp/sim"
)

// OpenBoundSession binds a simulated engine, opens a session on it, and
// registers cleanup. Options tune the sim's behavior.
func OpenBoundSession(t testing.TB, opts ...sim.Option) *session.Session {
	t.Helper()

	engine := sim.New(opts...)
	t.Cleanup(func() {
		_ = engine.Close()
	})

	caps, err := zkfp.Bind(engine)
	if err != nil {
		t.Fatalf("zkfp.Bind: %v", err)
	}
	sess, err := session.New(caps)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	if err := sess.Open(context.Background()); err != nil {
		t.Fatalf("session.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = sess.Close()
	})
	return sess
}
