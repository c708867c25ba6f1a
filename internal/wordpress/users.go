package wordpress

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"archivist/internal/logging"
	"archivist/internal/textutil"
)

type user struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Username string `json:"username"`
}

// ResolveAuthor searches CMS users for the configured author. Lookup failures
// of any kind degrade to no author; a forbidden search is expected for
// accounts without list_users.
func (c *Client) ResolveAuthor(ctx context.Context) (int64, bool) {
	name := c.cfg.AuthorName
	if name == "" {
		return 0, false
	}
	params := url.Values{}
	params.Set("search", name)
	params.Set("per_page", strconv.Itoa(perPage))

	resp, err := c.get(ctx, "/users", params)
	if err != nil {
		logging.WarnWithContext(c.logger, "author lookup failed", "author_lookup_failed",
			logging.String("author", name),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "post will be created without an explicit author"),
		)
		return 0, false
	}
	if resp.status == http.StatusForbidden {
		c.logger.Debug("author search forbidden", logging.String("author", name))
		return 0, false
	}
	if resp.status != http.StatusOK {
		c.logger.Debug("author search rejected", logging.String("author", name), logging.Int("status", resp.status))
		return 0, false
	}
	var users []user
	if err := resp.decode("Users (search)", &users); err != nil {
		c.logger.Debug("author search undecodable", logging.Error(err))
		return 0, false
	}

	slug := textutil.Slugify(name)
	for _, u := range users {
		if u.Name == name || u.Slug == slug || u.Username == name ||
			(c.cfg.AuthorFallbackHandle != "" && u.Username == c.cfg.AuthorFallbackHandle) {
			c.logger.Debug("author resolved", logging.Int64("author_id", u.ID))
			return u.ID, true
		}
	}
	return 0, false
}
