// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth guards the admin API and hashes client addresses.

# Admin Password

The admin API accepts a bearer token equal to the configured password:

	err := auth.AuthorizeHeader(r.Header.Get("Authorization"), cfg.AdminPassword)

Both values are hashed with SHA-256 and compared with hmac.Equal, so the
check runs in constant time whatever the lengths.

# IP Hashing

Submissions are logged with a salted hash of the client address instead
of the address itself:

	salt, _ := auth.GenerateID(16)
	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
