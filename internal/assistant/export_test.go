package assistant

import "time"

func (s *Session) SetClock(now func() time.Time) { s.now = now }
