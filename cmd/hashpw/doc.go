// Command hashpw manages the credentials of the video player.
//
// It supports the following operations:
//   - hash: Hash a password for the UI_PASSWORD_HASH setting
//   - sessions: Show how many logins are active
//   - logout-all: Invalidate every login session
//
// Usage:
//
//	hashpw <command>
//
// Commands:
//
//	hash        Prompt twice for a password without echo and print its
//	            bcrypt hash. Setting UI_PASSWORD_HASH keeps the plain
//	            password out of the server environment.
//
//	sessions    Print the number of unexpired login sessions.
//
//	logout-all  Delete every login session, for example after changing
//	            the password.
//
// Environment:
//
//	DATABASE_DIR - Path to database directory (default: /database)
package main
