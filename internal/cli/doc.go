// Package cli defines the babycards command tree, its flags, the viper
// configuration layer and the confirmation gate in front of every
// network or spend-incurring action.
package cli
