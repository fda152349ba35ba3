// Package session provides the Redis-backed session store: one refresh
// token and one monotonically increasing version counter per user.
//
// The store knows nothing about the tokens' internal structure. It only
// guarantees TTL-bounded storage, unconditional overwrite on write, and an
// atomic version increment. Those three properties are what make the
// single-active-session policy correct under concurrent logins.
package session
