package relay

import "context"

// Run executes one turn of the session's cooperative event loop: it blocks
// until either an inbound frame has arrived or an outbound command is
// queued, handles it to completion, then drains any further frames/commands
// that were already buffered before returning. Exactly one of the two
// branches is taken per call to avoid reordering a frame behind a command
// queued in the same instant; callers (the process's outer multiplexer)
// call Run in a loop alongside their own select over redraw/keyboard
// sources.
//
// Run returns a non-nil error when ctx is done, when the connection fails,
// or when a frame with a known id fails to decode or does not have the
// shape its id calls for; unknown message ids are logged and skipped.
func (s *Session) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()

	case fe := <-s.frames:
		if err := s.handleOneFrame(fe); err != nil {
			return err
		}
		// Drain whatever else is already buffered in this turn.
		for {
			select {
			case fe := <-s.frames:
				if err := s.handleOneFrame(fe); err != nil {
					return err
				}
				continue
			default:
			}
			return nil
		}

	case line := <-s.sendQueue:
		if err := s.writeOne(line); err != nil {
			return err
		}
		for {
			select {
			case line := <-s.sendQueue:
				if err := s.writeOne(line); err != nil {
					return err
				}
				continue
			default:
			}
			return nil
		}
	}
}

func (s *Session) handleOneFrame(fe frameOrErr) error {
	if fe.err != nil {
		return fe.err
	}
	return s.handleFrame(fe.frame)
}
