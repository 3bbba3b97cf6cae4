// Package processor contains the business logic behind each babycards
// subcommand. Every pipeline is split into a plan step that resolves words,
// labels, prompts and paths without spending anything, and an execute step
// that only runs once the confirmation gate is open.
package processor
