package apperrors

import (
	"net/http"
)

/*
Этот файл содержит предопределенные ошибки бизнес-логики.
Сообщения видны клиенту как поле message.
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrDatabase - обертка для неожиданных ошибок хранилища (500)
func ErrDatabase(err error) *AppError {
	return Wrap(err, CodeDatabaseError, "database", "Internal server error", http.StatusInternalServerError)
}

// --- auth ---

var (
	ErrUserAlreadyExists  = New(CodeAlreadyExists, "auth", "User already exists with this email", http.StatusBadRequest)
	ErrInvalidCredentials = New(CodeInvalidCredentials, "auth", "Invalid credentials", http.StatusBadRequest)
	ErrNoToken            = New(CodeUnauthorized, "auth", "Not authorized, no token", http.StatusUnauthorized)
	ErrInvalidToken       = New(CodeInvalidToken, "auth", "Not authorized, token failed", http.StatusUnauthorized)
	ErrUserNotFound       = New(CodeNotFound, "user", "User not found", http.StatusNotFound)
)

// --- gigs ---

var (
	ErrGigNotFound     = New(CodeNotFound, "gig", "Gig not found", http.StatusNotFound)
	ErrNotGigOwner     = New(CodeForbidden, "gig", "You can only update your own gigs", http.StatusForbidden)
	ErrNotGigDeleter   = New(CodeForbidden, "gig", "You can only delete your own gigs", http.StatusForbidden)
	ErrOnlyFreelancers = New(CodeForbidden, "gig", "Only freelancers can create gigs", http.StatusForbidden)
)

// --- orders ---

var (
	ErrOrderNotFound       = New(CodeNotFound, "order", "Order not found", http.StatusNotFound)
	ErrOnlyClientsOrder    = New(CodeForbidden, "order", "Only clients can place orders", http.StatusForbidden)
	ErrGigNotAvailable     = New(CodeInvalidOperation, "order", "This gig is not available", http.StatusBadRequest)
	ErrOwnGigOrder         = New(CodeInvalidOperation, "order", "You cannot order your own gig", http.StatusBadRequest)
	ErrNotOrderParty       = New(CodeForbidden, "order", "You do not have access to this order", http.StatusForbidden)
	ErrOnlyFreelancerState = New(CodeForbidden, "order", "Only the freelancer can update order status", http.StatusForbidden)
	ErrInvalidOrderStatus  = New(CodeValidationFailed, "order", "Invalid status", http.StatusBadRequest)
	ErrOnlyClientComplete  = New(CodeForbidden, "order", "Only the client can complete the order", http.StatusForbidden)
	ErrOrderNotDelivered   = New(CodeInvalidStatus, "order", "Order must be delivered before completing", http.StatusConflict)
	ErrCannotCancel        = New(CodeForbidden, "order", "You cannot cancel this order", http.StatusForbidden)
	ErrOrderNotPending     = New(CodeInvalidStatus, "order", "Can only cancel pending orders", http.StatusConflict)
	ErrOrderClosed         = New(CodeInvalidStatus, "order", "Order is already closed", http.StatusConflict)
	ErrOrderStateChanged   = New(CodeConflict, "order", "Order status was changed by another request", http.StatusConflict)
)

// --- reviews ---

var (
	ErrOnlyClientReview  = New(CodeForbidden, "review", "Only the client can review this order", http.StatusForbidden)
	ErrOrderNotCompleted = New(CodeInvalidStatus, "review", "Can only review completed orders", http.StatusConflict)
	ErrAlreadyReviewed   = New(CodeConflict, "review", "You have already reviewed this order", http.StatusConflict)
)

// --- messages ---

var (
	ErrMessageTarget      = New(CodeValidationFailed, "message", "Either orderId or gigId is required", http.StatusBadRequest)
	ErrNotOrderMember     = New(CodeForbidden, "message", "You are not part of this order", http.StatusForbidden)
	ErrContactYourself    = New(CodeInvalidOperation, "message", "You cannot contact yourself", http.StatusBadRequest)
	ErrClientIDRequired   = New(CodeValidationFailed, "message", "ClientId required for freelancers", http.StatusBadRequest)
	ErrMessageNotFound    = New(CodeNotFound, "message", "Message not found", http.StatusNotFound)
	ErrNotMessageReceiver = New(CodeForbidden, "message", "Only receiver can mark message as read", http.StatusForbidden)
	ErrRoomForbidden      = New(CodeForbidden, "message", "You are not part of this conversation", http.StatusForbidden)
)
