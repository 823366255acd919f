// Package identity is a small password identity provider.
//
// Sign-in state lives in a Context, not in the Provider. A process can hold
// any number of contexts and each tracks its own "currently signed in" user,
// so creating an account in one context (which signs the new user into it)
// never disturbs a session held by another.
package identity
