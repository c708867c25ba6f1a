package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"archivist/internal/logging"
	"archivist/internal/services"
)

// Post statuses accepted by CreatePost.
const (
	StatusPublish = "publish"
	StatusDraft   = "draft"
)

// PostRequest is one post submission. Date is YYYY-MM-DD and is sent as noon
// local time.
type PostRequest struct {
	Title   string
	Content string
	Date    string
	Status  string
}

// PostResult describes a created post.
type PostResult struct {
	ID        int64
	URL       string
	AuthorSet bool
}

// Post is a post as listed by the CMS.
type Post struct {
	ID         int64
	Title      string
	Date       string
	Link       string
	Categories []int64
	AuthorName string
}

type wirePost struct {
	ID    int64  `json:"id"`
	Date  string `json:"date"`
	Link  string `json:"link"`
	Title struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
	Categories []int64 `json:"categories"`
	Embedded   struct {
		Author []struct {
			Name string `json:"name"`
		} `json:"author"`
	} `json:"_embedded"`
}

// UnmarshalJSON flattens the REST representation, unescaping the rendered
// title and lifting the first embedded author name.
func (p *Post) UnmarshalJSON(data []byte) error {
	var w wirePost
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Post{
		ID:         w.ID,
		Title:      strings.TrimSpace(html.UnescapeString(w.Title.Rendered)),
		Date:       w.Date,
		Link:       w.Link,
		Categories: w.Categories,
	}
	if len(w.Embedded.Author) > 0 {
		p.AuthorName = w.Embedded.Author[0].Name
	}
	return nil
}

// CreatePost submits a post. When an author was attached and the CMS answers
// 403, the submission is retried exactly once without the author and the
// result reports AuthorSet=false. Any 403 triggers the retry because the CMS
// does not distinguish author permission failures from other refusals.
func (c *Client) CreatePost(ctx context.Context, req PostRequest) (PostResult, error) {
	ctx = services.WithOperation(ctx, "create_post")
	logger := logging.WithContext(ctx, c.logger)

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = StatusPublish
	}
	if strings.TrimSpace(req.Title) == "" {
		return PostResult{}, services.Wrap(services.ErrValidation, "wordpress", "create_post", "title is required", nil)
	}
	date, err := LocalNoon(req.Date)
	if err != nil {
		return PostResult{}, services.Wrap(services.ErrValidation, "wordpress", "create_post", "date must be YYYY-MM-DD", err)
	}

	payload := map[string]any{
		"title":   req.Title,
		"content": req.Content,
		"status":  status,
		"date":    date,
	}
	if c.category != nil {
		id, ok, err := c.category.ResolveCategory(ctx)
		if err != nil {
			return PostResult{}, fmt.Errorf("resolve category: %w", err)
		}
		if ok {
			payload["categories"] = []int64{id}
		}
	}
	if c.cfg.FeaturedMediaID > 0 {
		payload["featured_media"] = c.cfg.FeaturedMediaID
	}
	authorID, authorAttached := c.ResolveAuthor(ctx)
	if authorAttached {
		payload["author"] = authorID
	}

	resp, err := c.post(ctx, "/posts", payload)
	if err != nil {
		return PostResult{}, wrapWriteError("create_post", err)
	}
	authorSet := authorAttached
	if resp.status == http.StatusForbidden && authorAttached {
		logging.WarnWithContext(logger, "post rejected with author; retrying without", "author_retry",
			logging.Int64("author_id", authorID),
			logging.String(logging.FieldErrorHint, "grant the application user permission to assign authors"),
		)
		delete(payload, "author")
		authorSet = false
		resp, err = c.post(ctx, "/posts", payload)
		if err != nil {
			return PostResult{}, wrapWriteError("create_post", err)
		}
	}
	if !resp.ok() {
		return PostResult{}, resp.apiError("Posts (create)")
	}

	var created wirePost
	if err := resp.decode("Posts (create)", &created); err != nil {
		return PostResult{}, err
	}
	logger.Info("post created",
		logging.String(logging.FieldEventType, "post_created"),
		logging.Int64("post_id", created.ID),
		logging.String("status", status),
		logging.Bool("author_set", authorSet),
	)
	return PostResult{ID: created.ID, URL: created.Link, AuthorSet: authorSet}, nil
}

// ListOptions filters ListPosts.
type ListOptions struct {
	CategoryID int64
	Status     string
	// EmbedAuthor requests _embedded author records so Post.AuthorName is set.
	EmbedAuthor bool
}

// ListPosts pages through /posts, 100 at a time, until X-WP-TotalPages is
// exhausted or a page comes back empty.
func (c *Client) ListPosts(ctx context.Context, opts ListOptions) ([]Post, error) {
	status := strings.TrimSpace(opts.Status)
	if status == "" {
		status = StatusPublish
	}
	var posts []Post
	totalPages := 1
	for page := 1; page <= totalPages; page++ {
		params := url.Values{}
		if opts.CategoryID > 0 {
			params.Set("categories", strconv.FormatInt(opts.CategoryID, 10))
		}
		params.Set("per_page", strconv.Itoa(perPage))
		params.Set("page", strconv.Itoa(page))
		params.Set("status", status)
		if opts.EmbedAuthor {
			params.Set("_fields", "id,title,date,link,author,_embedded")
			params.Set("_embed", "author")
		} else {
			params.Set("_fields", "id,title,date,categories,link")
		}

		resp, err := c.get(ctx, "/posts", params)
		if err != nil {
			return nil, fmt.Errorf("list posts page %d: %w", page, err)
		}
		if !resp.ok() {
			return nil, resp.apiError("Posts list")
		}
		if n, err := strconv.Atoi(strings.TrimSpace(resp.header.Get("X-WP-TotalPages"))); err == nil {
			totalPages = n
		}
		var batch []Post
		if err := resp.decode("Posts list", &batch); err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		posts = append(posts, batch...)
	}
	c.logger.Debug("posts listed", logging.Int("count", len(posts)), logging.Int64("category_id", opts.CategoryID))
	return posts, nil
}

// IsForbidden reports whether err is a 403 from the CMS.
func IsForbidden(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}
