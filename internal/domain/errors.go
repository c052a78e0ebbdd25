package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates the caller supplied a malformed or
	// incomplete request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyExists indicates a unique constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthenticated indicates an operation requiring a known user was
	// called without one.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden indicates the entity exists but belongs to someone else.
	ErrForbidden = errors.New("forbidden")
	// ErrEmptyCart indicates checkout was attempted with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPaymentVerificationFailed indicates the payment signature did not
	// match the server-computed one.
	ErrPaymentVerificationFailed = errors.New("payment verification failed")
	// ErrMergeFailed wraps a persistence failure during a cart merge; the
	// whole batch has been rolled back.
	ErrMergeFailed = errors.New("cart merge failed")
	// ErrOrderCreationFailed wraps a persistence failure during order
	// placement; the order transaction has been rolled back.
	ErrOrderCreationFailed = errors.New("order creation failed")
	// ErrInvalidTransition indicates a forbidden order status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)
