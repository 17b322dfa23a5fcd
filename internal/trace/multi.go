package trace

import "errors"

// teeTracer backs ModeBoth: events go to the stream as they happen and are
// also kept in the ring for a failure dump.
type teeTracer struct {
	stream *StreamTracer
	ring   *RingTracer
}

func newTeeTracer(stream *StreamTracer, ring *RingTracer) *teeTracer {
	return &teeTracer{stream: stream, ring: ring}
}

// Emit копирует событие: stream назначает Seq прямо в ev.
func (t *teeTracer) Emit(ev *Event) {
	ringEv := *ev
	t.stream.Emit(ev)
	t.ring.Emit(&ringEv)
}

func (t *teeTracer) Flush() error { return t.stream.Flush() }

func (t *teeTracer) Close() error {
	return errors.Join(t.stream.Close(), t.ring.Close())
}

func (t *teeTracer) Level() Level  { return t.stream.Level() }
func (t *teeTracer) Enabled() bool { return t.stream.Enabled() }
