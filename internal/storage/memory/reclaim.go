package memory

import "time"

// reclaim removes expired keys. It sleeps until the next known deadline or
// until Set signals a schedule change, and never holds the lock while
// waiting.
func (s *Store) reclaim() {
	defer close(s.stopped)

	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		next, ok, purged := s.purgeExpired()
		s.report(purged)
		if !ok {
			select {
			case <-s.wake:
			case <-s.done:
				return
			}
			continue
		}

		timer.Reset(next.Sub(s.now()))
		select {
		case <-timer.C:
		case <-s.wake:
			timer.Stop()
		case <-s.done:
			timer.Stop()
			return
		}
	}
}

// purgeExpired removes every key whose deadline has passed and returns the
// next pending deadline, if any, along with the number of keys removed.
func (s *Store) purgeExpired() (next time.Time, ok bool, purged int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for {
		item, found := s.expirations.Min()
		if !found {
			return time.Time{}, false, purged
		}
		if item.when.After(now) {
			return item.when, true, purged
		}

		s.expirations.Delete(item)
		delete(s.entries, item.key)
		purged++
	}
}

func (s *Store) report(purged int) {
	if purged == 0 {
		return
	}
	s.metrics.AddKeysExpired(purged)
	s.logger.Debug("reclaimed expired keys", "count", purged)
}
