package booking

import (
	"errors"
	"fmt"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending         BookingStatus = "pending"
	BookingStatusQuotePending    BookingStatus = "quote_pending"
	BookingStatusQuoteSent       BookingStatus = "quote_sent"
	BookingStatusQuoteApproved   BookingStatus = "quote_approved"
	BookingStatusAwaitingPayment BookingStatus = "awaiting_payment"
	BookingStatusConfirmed       BookingStatus = "confirmed"
	BookingStatusInProgress      BookingStatus = "in_progress"
	BookingStatusCompleted       BookingStatus = "completed"
	BookingStatusCancelled       BookingStatus = "cancelled"
)

// LiveStatuses hold a slot for conflict and capacity purposes.
var LiveStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusInProgress,
}

// Action is a workflow operation requested against a booking.
type Action string

const (
	ActionReschedule   Action = "reschedule"
	ActionSetStatus    Action = "set_status"
	ActionCancel       Action = "cancel"
	ActionSendQuote    Action = "send_quote"
	ActionRespondQuote Action = "respond_quote"
)

var (
	ErrTerminalState       = errors.New("booking is in a terminal state")
	ErrActionNotAllowed    = errors.New("action not allowed in current state")
	ErrTransitionForbidden = errors.New("transition not permitted for caller")
	ErrUnknownStatus       = errors.New("unknown booking status")
)

var (
	openActions  = []Action{ActionReschedule, ActionSetStatus, ActionCancel}
	quoteActions = []Action{ActionReschedule, ActionSetStatus, ActionCancel, ActionSendQuote}
)

// actionTable lists, per state, every action that may be applied to it.
// Terminal states have no entry and accept nothing.
var actionTable = map[BookingStatus][]Action{
	BookingStatusPending:         openActions,
	BookingStatusQuotePending:    quoteActions,
	BookingStatusQuoteSent:       append(append([]Action{}, quoteActions...), ActionRespondQuote),
	BookingStatusQuoteApproved:   openActions,
	BookingStatusAwaitingPayment: openActions,
	BookingStatusConfirmed:       openActions,
	BookingStatusInProgress:      openActions,
	BookingStatusCompleted:       nil,
	BookingStatusCancelled:       nil,
}

func (bs BookingStatus) String() string {
	return string(bs)
}

func (bs BookingStatus) IsValid() bool {
	switch bs {
	case BookingStatusPending, BookingStatusQuotePending, BookingStatusQuoteSent,
		BookingStatusQuoteApproved, BookingStatusAwaitingPayment, BookingStatusConfirmed,
		BookingStatusInProgress, BookingStatusCompleted, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are accepted.
func (bs BookingStatus) IsTerminal() bool {
	return bs == BookingStatusCompleted || bs == BookingStatusCancelled
}

// IsLive reports whether the booking occupies its slot.
func (bs BookingStatus) IsLive() bool {
	switch bs {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress:
		return true
	default:
		return false
	}
}

// Allows reports whether the action may be applied in this state.
func (bs BookingStatus) Allows(a Action) bool {
	for _, allowed := range actionTable[bs] {
		if allowed == a {
			return true
		}
	}
	return false
}

// CheckAction returns ErrTerminalState or ErrActionNotAllowed when the action cannot run.
func (bs BookingStatus) CheckAction(a Action) error {
	if bs.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrTerminalState, bs)
	}
	if !bs.Allows(a) {
		return fmt.Errorf("%w: %s from %s", ErrActionNotAllowed, a, bs)
	}
	return nil
}

// CanTransition validates a generic status change. Admins may move a live
// booking to any status; owners may only cancel.
func CanTransition(from, to BookingStatus, admin bool) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if err := from.CheckAction(ActionSetStatus); err != nil {
		return err
	}
	if admin || to == BookingStatusCancelled {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrTransitionForbidden, from, to)
}

// Effect is a side effect triggered by entering a status.
type Effect uint8

const (
	EffectStampCancelled Effect = 1 << iota
	EffectStampCompleted
	EffectRestock
)

// Has reports whether e includes flag.
func (e Effect) Has(flag Effect) bool {
	return e&flag != 0
}

// EffectsOf lists the side effects of entering the given status.
func EffectsOf(to BookingStatus) Effect {
	switch to {
	case BookingStatusCancelled:
		return EffectStampCancelled | EffectRestock
	case BookingStatusCompleted:
		return EffectStampCompleted
	default:
		return 0
	}
}

// InitialStatus is the status a new booking of the given type starts in.
func InitialStatus(t ServiceType) BookingStatus {
	if t == ServiceTypeOnSite {
		return BookingStatusPending
	}
	return BookingStatusQuotePending
}

// GetAllBookingStatuses returns all valid booking statuses
func GetAllBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusPending,
		BookingStatusQuotePending,
		BookingStatusQuoteSent,
		BookingStatusQuoteApproved,
		BookingStatusAwaitingPayment,
		BookingStatusConfirmed,
		BookingStatusInProgress,
		BookingStatusCompleted,
		BookingStatusCancelled,
	}
}

// ServiceType classifies how a booking is fulfilled.
type ServiceType string

const (
	ServiceTypeOnSite           ServiceType = "on_site"
	ServiceTypeCustomProduction ServiceType = "custom_production"
	ServiceTypeCollectRepair    ServiceType = "collect_repair"
)

func (t ServiceType) IsValid() bool {
	switch t {
	case ServiceTypeOnSite, ServiceTypeCustomProduction, ServiceTypeCollectRepair:
		return true
	default:
		return false
	}
}

// RequiresSchedule reports whether a date and time are mandatory at creation.
func (t ServiceType) RequiresSchedule() bool {
	return t == ServiceTypeOnSite
}

// CollectionMethod is how a collect-repair item reaches the workshop.
type CollectionMethod string

const (
	CollectionPickup  CollectionMethod = "pickup"
	CollectionDropOff CollectionMethod = "drop_off"
)

func (m CollectionMethod) IsValid() bool {
	return m == CollectionPickup || m == CollectionDropOff
}
