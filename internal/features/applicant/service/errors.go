package service

import "errors"

var (
	// ErrNoUsableResult is returned when the NFT API answers without a mint address.
	ErrNoUsableResult = errors.New("nft api returned no usable result")
	ErrMintInProgress = errors.New("mint already in progress for applicant")
)
