package models

// RegistrationStep is the transient onboarding position of a client.
type RegistrationStep string

const (
	StepNone                 RegistrationStep = ""
	StepAwaitingLocationName RegistrationStep = "awaiting_location_name"
	StepAwaitingAddress      RegistrationStep = "awaiting_address"
)

// PendingSelection is the item awaiting a quantity reply.
// IsEdit only changes the wording shown to the client.
type PendingSelection struct {
	Item   string
	IsEdit bool
}
