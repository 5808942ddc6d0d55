package v1

import "strings"

var authenticationAllowlist = map[string]bool{
	"/api/v1/signup":   true,
	"/api/v1/signin":   true,
	"/api/v1/covers/*": true,
}

// isUnauthorizeAllowed returns whether the path is exempted from authentication.
// Support the wildcard character *.
func isUnauthorizeAllowed(path string) bool {
	for k := range authenticationAllowlist {
		if strings.HasSuffix(k, "*") {
			if strings.HasPrefix(path, strings.TrimSuffix(k, "*")) {
				return true
			}
		}
	}

	return authenticationAllowlist[path]
}

// Routes, by name, that only librarians (HOST or ADMIN) may call.
var allowedRoutesOnlyForAdmin = map[string]bool{
	"listUsers":          true,
	"getGeneralSettings": true,
	"setGeneralSettings": true,
	"createBook":         true,
	"updateBook":         true,
	"deleteBook":         true,
	"uploadCover":        true,
	"createAuthor":       true,
	"updateAuthor":       true,
	"deleteAuthor":       true,
	"createGenre":        true,
	"updateGenre":        true,
	"deleteGenre":        true,
	"createCopy":         true,
	"setCopyStatus":      true,
	"deleteCopy":         true,
	"renewForm":          true,
	"renewCopy":          true,
	"allBorrowed":        true,
}

// isOnlyForAdminAllowedRoute returns true if the route may only be called by a librarian.
func isOnlyForAdminAllowedRoute(routeName string) bool {
	return allowedRoutesOnlyForAdmin[routeName]
}
