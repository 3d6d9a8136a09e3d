package snapsocket

// Message is anything a socket reports to a Mailbox. It matches engo.Message.
type Message interface {
	Type() string
}

// Mailbox receives socket messages.
type Mailbox interface {
	Dispatch(msg Message)
}

// Mailboxes fans a message out to every mailbox in order.
type Mailboxes []Mailbox

func (ms Mailboxes) Dispatch(msg Message) {
	for _, m := range ms {
		if m != nil {
			m.Dispatch(msg)
		}
	}
}

// MailboxFunc adapts a function to a Mailbox.
type MailboxFunc func(msg Message)

func (f MailboxFunc) Dispatch(msg Message) { f(msg) }

type nopMailbox struct{}

func (nopMailbox) Dispatch(Message) {}

// SocketCapturedMessage is sent when a socket adopts an occupant.
type SocketCapturedMessage struct {
	Socket uint64
	Object uint64
	Angle  float32
}

func (SocketCapturedMessage) Type() string {
	return "SocketCapturedMessage"
}

// SocketRejectedMessage is sent when a candidate is refused.
type SocketRejectedMessage struct {
	Socket  uint64
	Object  uint64
	Verdict Verdict
	Angle   float32
}

func (SocketRejectedMessage) Type() string {
	return "SocketRejectedMessage"
}

// SocketReleasedMessage is sent when an occupant leaves a socket.
type SocketReleasedMessage struct {
	Socket uint64
	Object uint64
	Reason ReleaseReason
}

func (SocketReleasedMessage) Type() string {
	return "SocketReleasedMessage"
}

// Recorder is a Mailbox keeping every message it receives, in order.
type Recorder struct {
	Messages []Message
}

func (r *Recorder) Dispatch(msg Message) {
	r.Messages = append(r.Messages, msg)
}

// Count returns how many messages of the given type were received.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, m := range r.Messages {
		if m.Type() == kind {
			n++
		}
	}
	return n
}
