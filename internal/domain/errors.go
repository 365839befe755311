package domain

import "errors"

var (
	// ErrWalletNotFound is returned when no provider occupies the requested wallet slot
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrWrongProvider is returned when an imposter provider of another chain family occupies the slot
	ErrWrongProvider = errors.New("wrong provider occupies wallet slot")

	// ErrUserRejected is returned when the user declines a wallet prompt
	ErrUserRejected = errors.New("user rejected the request")

	// ErrNoPrimaryAccount is returned when an operation requires an authenticated primary session
	ErrNoPrimaryAccount = errors.New("no primary account")

	// ErrCollectionNotFound is returned when a collection id resolves to nothing
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrCollectionPublished is returned when a mutation targets a published collection
	ErrCollectionPublished = errors.New("collection is published and immutable")

	// ErrSessionExpired is returned when a persisted identity token is past its expiry
	ErrSessionExpired = errors.New("session expired")
)
