package signer

// Mode selects which headers the V3 signer signs, and whether it signs
// at all. The three modes are mutually exclusive and each drives
// different behavior, so they are a dedicated enum rather than a pair of
// booleans.
type Mode int

const (
	// ModeDefault signs every header except
	// {authorization, content-length, expect, user-agent}.
	ModeDefault Mode = iota
	// ModeMinimal signs only whichever of {content-type, host} is present.
	ModeMinimal
	// ModeSkip emits the fixed sentinel authorization value "SKIP" and
	// performs no signing at all.
	ModeSkip
)
