package database

import (
	"net/url"
	"strings"
)

// ConstructDatabaseURL points baseURL at databaseName. URL-form DSNs get sslmode=disable
// unless one is already set; keyword/value DSNs get a dbname pair appended.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	trimmed := strings.TrimRight(baseURL, "/")
	if !strings.Contains(trimmed, "://") {
		return strings.TrimSpace(trimmed + " dbname=" + databaseName)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return trimmed + "/" + databaseName
	}
	u.Path = "/" + databaseName
	query := u.Query()
	if !query.Has("sslmode") {
		query.Set("sslmode", "disable")
	}
	u.RawQuery = query.Encode()
	return u.String()
}
