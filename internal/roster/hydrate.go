package roster

import (
	"context"
	"fmt"

	"whorl/internal/session"
	"whorl/internal/zkfp"
)

// Hydrate enrolls every roster entry into the session's enrollment
// database under its row id and returns the id-to-name mapping for
// resolving identification results. The session must be in DBReady.
func (s *Store) Hydrate(ctx context.Context, sess *session.Session) (map[uint32]string, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[uint32]string, len(entries))
	for _, entry := range entries {
		id := uint32(entry.ID)
		st, err := sess.Enroll(ctx, id, entry.Template)
		if err != nil {
			return nil, err
		}
		if !st.OK() {
			return nil, fmt.Errorf("hydrate %q: %w", entry.Name, &zkfp.CallError{Op: "enroll", Status: st})
		}
		names[id] = entry.Name
	}
	return names, nil
}
