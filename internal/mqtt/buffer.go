package mqtt

// bufferedMsg stores a serialized MQTT message for replay after reconnection.
type bufferedMsg struct {
	topic   string
	payload []byte
}

// eventQueue is a bounded FIFO holding messages while the broker is
// unreachable. When full, the oldest message is dropped to make room.
// Not safe for concurrent use — caller must synchronize.
type eventQueue struct {
	msgs    []bufferedMsg
	max     int
	dropped bool
}

func newEventQueue(max int) *eventQueue {
	return &eventQueue{max: max}
}

func (q *eventQueue) push(msg bufferedMsg) {
	if len(q.msgs) == q.max {
		if !q.dropped {
			logger.Warnf("offline buffer full (%d messages), dropping oldest", q.max)
			q.dropped = true
		}
		copy(q.msgs, q.msgs[1:])
		q.msgs[len(q.msgs)-1] = msg
		return
	}
	q.msgs = append(q.msgs, msg)
}

// drain returns all buffered messages in arrival order and empties the queue.
func (q *eventQueue) drain() []bufferedMsg {
	if len(q.msgs) == 0 {
		return nil
	}
	out := q.msgs
	q.msgs = nil
	q.dropped = false
	return out
}

func (q *eventQueue) len() int {
	return len(q.msgs)
}
