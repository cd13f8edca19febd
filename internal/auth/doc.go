// Package auth checks logins against the one account configured through
// UI_USERNAME and UI_PASSWORD or UI_PASSWORD_HASH.
//
// Passwords are only ever held as bcrypt hashes. Use the hashpw command to
// produce a value for UI_PASSWORD_HASH.
package auth
