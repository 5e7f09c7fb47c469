// Package taxonomy provides the static category/tag catalog used as
// matching vocabulary. The catalog is immutable after construction and
// safe for unlimited concurrent reads.
package taxonomy

import (
	"context"

	"github.com/gighive/gighive/pkg/logger"
)

// Category groups activity and qualification tags under one key.
type Category struct {
	Key            string
	Title          string
	Activities     []string
	Qualifications []string
}

// CategoryInfo is the list shape returned by ListCategories.
type CategoryInfo struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// Catalog is a read-only lookup over categories and their tags.
type Catalog struct {
	order      []string
	categories map[string]Category
	tags       map[string]map[string]struct{} // category key -> tag set
	log        logger.Logger
}

// NewCatalog builds a catalog from the given categories, preserving
// insertion order. Tag keys duplicated across categories are permitted
// but logged, since they make a bare tag ambiguous outside its
// category.
func NewCatalog(categories []Category, opts ...Option) *Catalog {
	c := &Catalog{
		categories: make(map[string]Category, len(categories)),
		tags:       make(map[string]map[string]struct{}, len(categories)),
		log:        logger.Named("taxonomy"),
	}
	for _, opt := range opts {
		opt(c)
	}

	seen := make(map[string]string) // tag -> first category key
	for _, cat := range categories {
		if _, dup := c.categories[cat.Key]; dup {
			c.log.Warn(context.Background(), "duplicate category key ignored", logger.String("category", cat.Key))
			continue
		}
		c.order = append(c.order, cat.Key)
		c.categories[cat.Key] = cat

		set := make(map[string]struct{}, len(cat.Activities)+len(cat.Qualifications))
		for _, tag := range cat.Activities {
			set[tag] = struct{}{}
		}
		for _, tag := range cat.Qualifications {
			set[tag] = struct{}{}
		}
		c.tags[cat.Key] = set

		for tag := range set {
			if first, ok := seen[tag]; ok {
				c.log.Warn(context.Background(), "tag key shared across categories",
					logger.String("tag", tag),
					logger.String("first_category", first),
					logger.String("category", cat.Key))
				continue
			}
			seen[tag] = cat.Key
		}
	}
	return c
}

// ListCategories returns {key, title} pairs in insertion order.
func (c *Catalog) ListCategories() []CategoryInfo {
	out := make([]CategoryInfo, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, CategoryInfo{Key: key, Title: c.categories[key].Title})
	}
	return out
}

// GetCategory looks up a category by key. Unknown keys are logged and
// reported via the ok result; callers treat them as an empty tag set
// rather than a fatal condition.
func (c *Catalog) GetCategory(key string) (Category, bool) {
	cat, ok := c.categories[key]
	if !ok {
		c.log.Warn(context.Background(), "unknown category", logger.String("category", key))
	}
	return cat, ok
}

// TagsForCategory returns the union of a category's activities and
// qualifications. Unknown categories yield an empty set.
func (c *Catalog) TagsForCategory(key string) map[string]struct{} {
	set, ok := c.tags[key]
	if !ok {
		return map[string]struct{}{}
	}
	out := make(map[string]struct{}, len(set))
	for tag := range set {
		out[tag] = struct{}{}
	}
	return out
}

// IsTagAllowed reports whether tag is declared under category.
func (c *Catalog) IsTagAllowed(category, tag string) bool {
	set, ok := c.tags[category]
	if !ok {
		return false
	}
	_, allowed := set[tag]
	return allowed
}
