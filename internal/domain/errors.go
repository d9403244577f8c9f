package domain

import "errors"

var (
	// ErrProfileNotFound signals a missing profile.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrCollectionEmpty signals that the profile collection holds no documents.
	ErrCollectionEmpty = errors.New("profile collection is empty")
	// ErrUnknownStrategy signals a decision case id outside 1..7.
	ErrUnknownStrategy = errors.New("unknown decision strategy")
	// ErrMalformedGroundTruth signals an unusable ground-truth header.
	ErrMalformedGroundTruth = errors.New("malformed ground truth file")
	// ErrGroundTruthMissing signals an absent ground-truth file.
	ErrGroundTruthMissing = errors.New("ground truth file missing")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
