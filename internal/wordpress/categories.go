package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"archivist/internal/logging"
	"archivist/internal/textutil"
)

// CategoryResolver decides the category attached to a new post. ok is false
// when the post should carry no category.
type CategoryResolver interface {
	ResolveCategory(ctx context.Context) (id int64, ok bool, err error)
}

// FixedCategory always returns the configured ID. Zero or negative IDs mean
// no category.
type FixedCategory struct {
	ID int64
}

func (f FixedCategory) ResolveCategory(context.Context) (int64, bool, error) {
	if f.ID <= 0 {
		return 0, false, nil
	}
	return f.ID, true, nil
}

// SearchOrCreateCategory looks a category up by name on every call and
// creates it when absent. Nothing is cached between calls.
type SearchOrCreateCategory struct {
	Client *Client
	Name   string
	// Slug is matched alongside Name and sent on creation. Empty derives it
	// from Name.
	Slug string
}

type category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (s *SearchOrCreateCategory) ResolveCategory(ctx context.Context) (int64, bool, error) {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return 0, false, nil
	}
	slug := strings.TrimSpace(s.Slug)
	if slug == "" {
		slug = textutil.Slugify(name)
	}

	params := url.Values{}
	params.Set("search", name)
	params.Set("per_page", strconv.Itoa(perPage))
	resp, err := s.Client.get(ctx, "/categories", params)
	if err != nil {
		return 0, false, fmt.Errorf("search categories: %w", err)
	}
	if !resp.ok() {
		return 0, false, resp.apiError("Categories (search)")
	}
	var found []category
	if err := resp.decode("Categories (search)", &found); err != nil {
		return 0, false, err
	}
	for _, cat := range found {
		if cat.Name == name || cat.Slug == slug {
			return cat.ID, true, nil
		}
	}

	created, err := s.Client.post(ctx, "/categories", map[string]string{"name": name, "slug": slug})
	if err != nil {
		return 0, false, wrapWriteError("create_category", err)
	}
	if created.ok() {
		var cat category
		if err := created.decode("Categories (create)", &cat); err != nil {
			return 0, false, err
		}
		s.Client.logger.Info("category created", logging.String("name", name), logging.Int64("category_id", cat.ID))
		return cat.ID, true, nil
	}
	if id, ok := existingTermID(created); ok {
		return id, true, nil
	}
	return 0, false, created.apiError("Categories (create)")
}

// existingTermID recovers the ID from a term_exists rejection, which the CMS
// returns when a category with the same slug already exists under a
// different display name.
func existingTermID(resp *response) (int64, bool) {
	if resp.status != http.StatusBadRequest {
		return 0, false
	}
	var body struct {
		Code string `json:"code"`
		Data struct {
			TermID int64 `json:"term_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.body, &body); err != nil {
		return 0, false
	}
	if body.Code != "term_exists" || body.Data.TermID <= 0 {
		return 0, false
	}
	return body.Data.TermID, true
}

// ResolveCategoryBySlug finds a category ID by exact slug, then by search
// (preferring an exact slug hit, else the first result), then falls back.
// A fallback of zero with no hit returns ok=false.
func (c *Client) ResolveCategoryBySlug(ctx context.Context, slug string, fallback int64) (int64, bool, error) {
	params := url.Values{}
	params.Set("slug", slug)
	params.Set("per_page", strconv.Itoa(perPage))
	resp, err := c.get(ctx, "/categories", params)
	if err != nil {
		return 0, false, fmt.Errorf("lookup category slug: %w", err)
	}
	if resp.ok() {
		var cats []category
		if err := resp.decode("Categories (slug)", &cats); err != nil {
			return 0, false, err
		}
		if len(cats) > 0 {
			return cats[0].ID, true, nil
		}
	}

	params = url.Values{}
	params.Set("search", slug)
	params.Set("per_page", strconv.Itoa(perPage))
	resp, err = c.get(ctx, "/categories", params)
	if err != nil {
		return 0, false, fmt.Errorf("search category slug: %w", err)
	}
	if resp.ok() {
		var cats []category
		if err := resp.decode("Categories (search)", &cats); err != nil {
			return 0, false, err
		}
		for _, cat := range cats {
			if cat.Slug == slug {
				return cat.ID, true, nil
			}
		}
		if len(cats) > 0 {
			return cats[0].ID, true, nil
		}
	}

	if fallback > 0 {
		return fallback, true, nil
	}
	return 0, false, nil
}

// CategoryNames maps category IDs to names, querying at most 100 IDs per
// request.
func (c *Client) CategoryNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })

	for start := 0; start < len(unique); start += perPage {
		end := min(start+perPage, len(unique))
		parts := make([]string, 0, end-start)
		for _, id := range unique[start:end] {
			parts = append(parts, strconv.FormatInt(id, 10))
		}
		params := url.Values{}
		params.Set("include", strings.Join(parts, ","))
		params.Set("per_page", strconv.Itoa(perPage))
		params.Set("_fields", "id,name")
		resp, err := c.get(ctx, "/categories", params)
		if err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		if !resp.ok() {
			return nil, resp.apiError("Categories list")
		}
		var cats []category
		if err := resp.decode("Categories list", &cats); err != nil {
			return nil, err
		}
		for _, cat := range cats {
			names[cat.ID] = cat.Name
		}
	}
	return names, nil
}
