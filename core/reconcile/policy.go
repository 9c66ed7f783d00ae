package reconcile

import (
	"fmt"
	"time"
)

// Versioned is an origin record carrying the monotonic origin version.
type Versioned interface {
	comparable
	Version() int
}

// Tracked is a destination record carrying the bookkeeping fields the sync
// writes back into it.
type Tracked interface {
	comparable
	// RecordedVersion returns the Version field, 0 when unset.
	RecordedVersion() int
	// SyncedAt returns the Synced At field and whether it is set.
	SyncedAt() (time.Time, bool)
	// ModifiedAt returns the destination-managed modification timestamp.
	ModifiedAt() time.Time
}

// OneWayByVersion mirrors the origin onto the destination.
// A missing origin deletes the destination record, a missing destination is
// created, and otherwise the destination is pushed when the origin version is
// strictly greater than the recorded one or force is set.
func OneWayByVersion[A Versioned, B Tracked](a A, b B, force bool) Action[A, B] {
	var zeroA A
	var zeroB B

	action := Action[A, B]{Origin: a, Destination: b}
	switch {
	case a == zeroA:
		action.Type, action.Target = ActionDelete, TargetB
		action.Reason = "missing at origin"
	case b == zeroB:
		action.Type, action.Target = ActionPush, TargetB
		action.Reason = "missing at destination"
	case force:
		action.Type, action.Target = ActionPush, TargetB
		action.Reason = "forced"
	case a.Version() > b.RecordedVersion():
		action.Type, action.Target = ActionPush, TargetB
		action.Reason = fmt.Sprintf("version %d > %d", a.Version(), b.RecordedVersion())
	default:
		action.Type = ActionIgnore
		action.Reason = "up to date"
	}
	return action
}

// TwoWayByTimestamp reconciles records that can change on both sides.
// Side A changed when its version exceeds the recorded one; side B changed when
// it was never synced or was modified after its last sync.
func TwoWayByTimestamp[A Versioned, B Tracked](a A, b B, force bool) Action[A, B] {
	var zeroA A
	var zeroB B

	action := Action[A, B]{Origin: a, Destination: b}
	switch {
	case a == zeroA:
		action.Type, action.Target = ActionDelete, TargetB
		action.Reason = "missing at origin"
		return action
	case b == zeroB:
		action.Type, action.Target = ActionPush, TargetB
		action.Reason = "missing at destination"
		return action
	}

	aChanged := a.Version() > b.RecordedVersion()
	action.Type, action.Target, action.Reason = DecideTwoWay(aChanged, DestinationChanged(b), force)
	return action
}

// DestinationChanged reports whether b was modified after its last sync.
func DestinationChanged[B Tracked](b B) bool {
	syncedAt, ok := b.SyncedAt()
	if !ok {
		return true
	}
	return b.ModifiedAt().After(syncedAt)
}

// DecideTwoWay resolves the both-present quadrant of a two-way sync.
func DecideTwoWay(aChanged, bChanged, force bool) (ActionType, Target, string) {
	switch {
	case force:
		return ActionPush, TargetB, "forced"
	case aChanged && bChanged:
		return ActionMerge, TargetNone, "changed on both sides"
	case aChanged:
		return ActionPush, TargetB, "changed on A"
	case bChanged:
		return ActionPush, TargetA, "changed on B"
	default:
		return ActionIgnore, TargetNone, "up to date"
	}
}
