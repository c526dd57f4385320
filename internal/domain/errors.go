package domain

import "errors"

// Sentinel errors for every failure mode the core can surface. Handlers match
// them with errors.Is and map each one to an HTTP status; services return them
// after rolling back, so a caller never observes partial state.
var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSameWallet        = errors.New("cannot transfer to the same wallet")

	ErrNotPending       = errors.New("request is not pending")
	ErrAlreadyAccepted  = errors.New("conversation is already accepted")
	ErrAlreadyAssigned  = errors.New("inquiry already has a moderator")
	ErrAlreadyRequested = errors.New("moderator already requested for this inquiry")

	ErrNotRecipient    = errors.New("only the recipient can respond")
	ErrNotBusiness     = errors.New("only businesses can create payment requests")
	ErrNotServiceOwner = errors.New("creator does not own the inquiry's service")
	ErrWrongRecipient  = errors.New("recipient is not the inquiry's customer")
	ErrNotModerator    = errors.New("only moderators can do this")
	ErrNotParticipant  = errors.New("user is not a participant")

	ErrSelfConversation        = errors.New("cannot start a conversation with yourself")
	ErrDuplicateConversation   = errors.New("conversation between these users already exists")
	ErrConversationNotAccepted = errors.New("conversation is not accepted yet")

	ErrInquiryClosed = errors.New("inquiry is closed")
)
