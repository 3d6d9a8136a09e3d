package snapsocket

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultRadius         = 0.5
	DefaultAngleTolerance = 90.0
	DefaultLerpSpeed      = 5.0

	// SnapEpsilon is the distance below which an occupant jumps onto the anchor.
	SnapEpsilon = 0.001
)

// State of a socket.
type State int

const (
	Empty State = iota
	Occupied
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Occupied:
		return "occupied"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Verdict is the outcome of evaluating an overlapping candidate.
type Verdict int

const (
	// VerdictCaptured: the candidate became the occupant.
	VerdictCaptured Verdict = iota
	// VerdictRejected: the candidate's orientation is out of tolerance.
	VerdictRejected
	// VerdictHeld: the orientation is valid but a hand holds the candidate.
	VerdictHeld
	// VerdictOccupied: another object already occupies the socket.
	VerdictOccupied
	// VerdictOwned: the candidate is parented to something else.
	VerdictOwned
	// VerdictOccupant: the candidate is the current occupant.
	VerdictOccupant
)

var verdictNames = map[Verdict]string{
	VerdictCaptured: "captured",
	VerdictRejected: "rejected",
	VerdictHeld:     "held",
	VerdictOccupied: "occupied",
	VerdictOwned:    "owned",
	VerdictOccupant: "occupant",
}

func (v Verdict) String() string {
	if n, ok := verdictNames[v]; ok {
		return n
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

// ReleaseReason says why an occupant left its socket.
type ReleaseReason int

const (
	// ReleaseGrabbed: a hand took the occupant.
	ReleaseGrabbed ReleaseReason = iota
	// ReleaseExited: the occupant left the capture volume.
	ReleaseExited
	// ReleaseVanished: the occupant no longer exists in the scene.
	ReleaseVanished
	// ReleaseStolen: the occupant was reparented by someone else.
	ReleaseStolen
	// ReleaseManual: the host called Release.
	ReleaseManual
)

var releaseNames = map[ReleaseReason]string{
	ReleaseGrabbed:  "grabbed",
	ReleaseExited:   "exited",
	ReleaseVanished: "vanished",
	ReleaseStolen:   "stolen",
	ReleaseManual:   "manual",
}

func (r ReleaseReason) String() string {
	if n, ok := releaseNames[r]; ok {
		return n
	}
	return fmt.Sprintf("ReleaseReason(%d)", int(r))
}

// SocketConfig holds the construction-time parameters of a socket.
type SocketConfig struct {
	// Radius of the capture sphere.
	Radius float32 `mapstructure:"radius" yaml:"radius"`
	// AngleTolerance in degrees.
	AngleTolerance float32 `mapstructure:"angleTolerance" yaml:"angleTolerance"`
	// LerpSpeed is the convergence rate toward the anchor, per second.
	LerpSpeed float32 `mapstructure:"lerpSpeed" yaml:"lerpSpeed"`
}

func DefaultSocketConfig() SocketConfig {
	return SocketConfig{
		Radius:         DefaultRadius,
		AngleTolerance: DefaultAngleTolerance,
		LerpSpeed:      DefaultLerpSpeed,
	}
}

// Validate rejects NaN as well as out of range values.
func (c SocketConfig) Validate() error {
	if !(c.Radius > 0) {
		return fmt.Errorf("%w, got %v", ErrInvalidRadius, c.Radius)
	}
	if !(c.AngleTolerance >= 0 && c.AngleTolerance <= 180) {
		return fmt.Errorf("%w, got %v", ErrInvalidTolerance, c.AngleTolerance)
	}
	if !(c.LerpSpeed >= 0) {
		return fmt.Errorf("%w, got %v", ErrInvalidLerpSpeed, c.LerpSpeed)
	}
	return nil
}

type SocketOption func(*Socket)

// WithLogger routes socket logs to l instead of the standard logger.
func WithLogger(l *log.Logger) SocketOption {
	return func(s *Socket) {
		s.log = l.WithField("socket", s.id)
	}
}

// WithMailbox sends capture, rejection and release messages to m.
func WithMailbox(m Mailbox) SocketOption {
	return func(s *Socket) {
		if m != nil {
			s.mailbox = m
		}
	}
}

// Socket captures at most one object whose orientation matches its own and
// pulls it onto its anchor until a hand takes it away.
type Socket struct {
	id      uint64
	cfg     SocketConfig
	scene   Scene
	grab    GrabQuery
	mailbox Mailbox
	log     *log.Entry

	occupant uint64
	occupied bool
	// last verdict per overlapping candidate
	feedback map[uint64]Verdict
}

// NewSocket builds a socket for the scene object id. The grab query must
// already be resolved.
func NewSocket(id uint64, cfg SocketConfig, scene Scene, grab GrabQuery, opts ...SocketOption) (*Socket, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if scene == nil {
		return nil, ErrNoScene
	}
	if grab == nil {
		return nil, ErrNoGrabQuery
	}
	if h, ok := grab.(*Hands); ok && (h == nil || isNilManipulator(h.Left) || isNilManipulator(h.Right)) {
		return nil, ErrNoGrabQuery
	}
	if _, ok := scene.Transform(id); !ok {
		return nil, fmt.Errorf("socket anchor %d: %w", id, ErrUnknownObject)
	}

	s := &Socket{
		id:       id,
		cfg:      cfg,
		scene:    scene,
		grab:     grab,
		mailbox:  nopMailbox{},
		log:      log.WithField("socket", id),
		feedback: map[uint64]Verdict{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Socket) ID() uint64             { return s.id }
func (s *Socket) Config() SocketConfig   { return s.cfg }
func (s *Socket) TriggerRadius() float32 { return s.cfg.Radius }

func (s *Socket) State() State {
	if s.occupied {
		return Occupied
	}
	return Empty
}

// Occupant returns the captured object, if any.
func (s *Socket) Occupant() (uint64, bool) {
	return s.occupant, s.occupied
}

// Feedback returns the last verdict given to a candidate still overlapping.
func (s *Socket) Feedback(candidate uint64) (Verdict, bool) {
	v, ok := s.feedback[candidate]
	return v, ok
}

// reject tints the candidate and reports the verdict when it changed.
func (s *Socket) reject(candidate uint64, surface Tintable, tint color.RGBA, v Verdict, angle float32) Verdict {
	surface.SetTint(tint)
	if prev, ok := s.feedback[candidate]; ok && prev == v {
		return v
	}
	s.feedback[candidate] = v
	s.mailbox.Dispatch(SocketRejectedMessage{Socket: s.id, Object: candidate, Verdict: v, Angle: angle})
	return v
}

// OnOverlap evaluates a candidate overlapping the capture volume. Overlap
// begin and stay events both land here.
func (s *Socket) OnOverlap(candidate uint64) (Verdict, error) {
	if s.occupied && candidate == s.occupant {
		return VerdictOccupant, nil
	}
	if candidate == s.id {
		return VerdictOwned, nil
	}

	ct, ok := s.scene.Transform(candidate)
	if !ok {
		return VerdictRejected, fmt.Errorf("candidate %d: %w", candidate, ErrUnknownObject)
	}
	st, ok := s.scene.Transform(s.id)
	if !ok {
		return VerdictRejected, fmt.Errorf("socket anchor %d: %w", s.id, ErrUnknownObject)
	}
	if p, ok := s.scene.Parent(candidate); ok && p != s.id {
		return VerdictOwned, nil
	}

	surface, ok := s.scene.Surface(candidate)
	if !ok {
		return VerdictRejected, fmt.Errorf("candidate %d: %w", candidate, ErrNotTintable)
	}

	angle := AngleBetween(ct.Rotation, st.Rotation)

	if s.occupied {
		return s.reject(candidate, surface, Rejected, VerdictOccupied, angle), nil
	}
	if !IsValidAngle(ct.Rotation, st.Rotation, s.cfg.AngleTolerance) {
		return s.reject(candidate, surface, Rejected, VerdictRejected, angle), nil
	}
	if s.grab.IsHeld(candidate) {
		return s.reject(candidate, surface, Accepted, VerdictHeld, angle), nil
	}

	surface.SetTint(Accepted)
	s.scene.Attach(s.id, candidate)
	s.occupant = candidate
	s.occupied = true
	s.feedback[candidate] = VerdictCaptured

	s.log.WithFields(log.Fields{"object": candidate, "angle": angle}).Debug("captured")
	s.mailbox.Dispatch(SocketCapturedMessage{Socket: s.id, Object: candidate, Angle: angle})
	return VerdictCaptured, nil
}

// OnOverlapEnd is the best-effort exit path: the occupant is released only if
// its nearest point is already outside the capture radius. Fast motion can
// skip this event entirely; the grab check in Update is authoritative.
func (s *Socket) OnOverlapEnd(candidate uint64) {
	delete(s.feedback, candidate)
	if !s.occupied || candidate != s.occupant {
		return
	}
	st, ok := s.scene.Transform(s.id)
	if !ok {
		return
	}
	pt, ok := s.scene.ClosestPoint(candidate, st.Position)
	if !ok {
		s.release(ReleaseVanished)
		return
	}
	if pt.Sub(st.Position).Len() > s.cfg.Radius {
		s.release(ReleaseExited)
	}
}

// Update ticks the socket: stray children are detached, a held occupant is
// released, and otherwise the occupant moves toward the anchor.
func (s *Socket) Update(dt float32) {
	s.reconcile()
	s.forgetVanished()

	if !s.occupied {
		return
	}
	anchor, ok := s.scene.Transform(s.id)
	if !ok {
		return
	}
	ot, ok := s.scene.Transform(s.occupant)
	if !ok {
		s.release(ReleaseVanished)
		return
	}

	// A grab always wins over interpolation.
	if s.grab.IsHeld(s.occupant) {
		s.release(ReleaseGrabbed)
		return
	}
	if p, ok := s.scene.Parent(s.occupant); !ok || p != s.id {
		s.release(ReleaseStolen)
		return
	}

	s.scene.SetPosition(s.occupant, approach(ot.Position, anchor.Position, s.cfg.LerpSpeed*dt))
}

// Release lets go of the occupant, if any.
func (s *Socket) Release() {
	if s.occupied {
		s.release(ReleaseManual)
	}
}

func (s *Socket) release(reason ReleaseReason) {
	obj := s.occupant
	s.occupant = 0
	s.occupied = false
	delete(s.feedback, obj)

	// Only undo what is still ours.
	if p, ok := s.scene.Parent(obj); ok && p == s.id {
		s.scene.Detach(obj)
		if surface, ok := s.scene.Surface(obj); ok {
			surface.SetTint(Neutral)
		}
	}

	s.log.WithFields(log.Fields{"object": obj, "reason": reason}).Debug("released")
	s.mailbox.Dispatch(SocketReleasedMessage{Socket: s.id, Object: obj, Reason: reason})
}

// reconcile detaches anything parented under the socket that is not the
// recorded occupant.
func (s *Socket) reconcile() {
	for _, c := range s.scene.Children(s.id) {
		if s.occupied && c == s.occupant {
			continue
		}
		if surface, ok := s.scene.Surface(c); ok {
			surface.SetTint(Neutral)
		}
		s.scene.Detach(c)
		s.log.WithField("object", c).Debug("detached stray child")
	}
}

// forgetVanished drops feedback for candidates that left the scene without
// an overlap end.
func (s *Socket) forgetVanished() {
	for id := range s.feedback {
		if _, ok := s.scene.Transform(id); !ok {
			delete(s.feedback, id)
		}
	}
}

// approach moves pos toward target by the fraction t, clamped to [0, 1].
// Within SnapEpsilon the result is target exactly.
func approach(pos, target mgl32.Vec3, t float32) mgl32.Vec3 {
	dist := pos.Sub(target).Len()
	if dist <= SnapEpsilon {
		return target
	}
	if !(t > 0) {
		return pos
	}
	if t > 1 {
		t = 1
	}
	next := pos.Add(target.Sub(pos).Mul(t))
	// float32 rounding can stall a tiny step
	if next.Sub(target).Len() >= dist {
		return target
	}
	return next
}
