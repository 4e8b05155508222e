package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/2beens/gymprogress/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"
)

const (
	oneHour           = 60 * 60
	searchCacheExpire = oneHour * 6
	megabyte          = 1024 * 1024
)

var (
	ErrNotFound          = errors.New("exercise not found")
	ErrUnsupportedFormat = errors.New("unsupported catalog file format")
)

// Catalog is read only after construction; safe for concurrent use.
type Catalog struct {
	cache     *freecache.Cache
	exercises []Exercise
	byID      map[string]int
}

// LoadExercises reads a .json array or a .yaml/.yml list of exercises.
func LoadExercises(path string) ([]Exercise, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var exercises []Exercise
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &exercises); err != nil {
			return nil, fmt.Errorf("unmarshal json catalog: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &exercises); err != nil {
			return nil, fmt.Errorf("unmarshal yaml catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	return exercises, nil
}

func New(exercises []Exercise, cacheSizeMB int) *Catalog {
	if cacheSizeMB <= 0 {
		cacheSizeMB = 8
	}

	c := &Catalog{
		cache:     freecache.NewCache(cacheSizeMB * megabyte),
		exercises: make([]Exercise, 0, len(exercises)),
		byID:      make(map[string]int, len(exercises)),
	}
	for _, ex := range exercises {
		if ex.ID == "" {
			log.Warnf("catalog: skipping exercise without id [%s]", ex.Name)
			continue
		}
		if _, dup := c.byID[ex.ID]; dup {
			log.Warnf("catalog: duplicate exercise id [%s], keeping the first", ex.ID)
			continue
		}
		c.byID[ex.ID] = len(c.exercises)
		c.exercises = append(c.exercises, ex)
	}

	log.Debugf("catalog: loaded %d exercises", len(c.exercises))
	return c
}

func (c *Catalog) Len() int {
	return len(c.exercises)
}

func (c *Catalog) Get(id string) (Exercise, error) {
	i, ok := c.byID[id]
	if !ok {
		return Exercise{}, ErrNotFound
	}
	return c.exercises[i], nil
}

// Search matches the name case-insensitively and requires every requested tag.
// Results are sorted by name.
func (c *Catalog) Search(ctx context.Context, query string, tags []string) []Exercise {
	_, span := tracing.GlobalTracer.Start(ctx, "catalog.search")
	defer span.End()

	q := normalizeTag(query)
	filters := make([]string, 0, len(tags))
	for _, t := range tags {
		if nt := normalizeTag(t); nt != "" {
			filters = append(filters, nt)
		}
	}
	sort.Strings(filters)
	span.SetAttributes(attribute.String("query", q), attribute.StringSlice("tags", filters))

	cacheKey := []byte("search::" + q + "::" + strings.Join(filters, ","))
	if idsBytes, err := c.cache.Get(cacheKey); err == nil {
		var ids []string
		if err := json.Unmarshal(idsBytes, &ids); err == nil {
			log.Tracef("catalog: search [%s] served from cache", q)
			return c.byIDs(ids)
		} else {
			log.Errorf("catalog: unmarshal cached search [%s]: %s", q, err)
		}
	}

	var found []Exercise
	for _, ex := range c.exercises {
		if q != "" && !strings.Contains(normalizeTag(ex.Name), q) {
			continue
		}
		if !hasAllTags(ex, filters) {
			continue
		}
		found = append(found, ex)
	}
	sort.SliceStable(found, func(i, j int) bool {
		return normalizeTag(found[i].Name) < normalizeTag(found[j].Name)
	})

	ids := make([]string, 0, len(found))
	for _, ex := range found {
		ids = append(ids, ex.ID)
	}
	if idsBytes, err := json.Marshal(ids); err == nil {
		if err := c.cache.Set(cacheKey, idsBytes, searchCacheExpire); err != nil {
			log.Debugf("catalog: cache search [%s]: %s", q, err)
		}
	}

	span.SetAttributes(attribute.Int("results", len(found)))
	return found
}

func hasAllTags(ex Exercise, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	have := make(map[string]bool)
	for _, t := range ex.Tags() {
		have[normalizeTag(t)] = true
	}
	for _, f := range filters {
		if !have[f] {
			return false
		}
	}
	return true
}

func (c *Catalog) byIDs(ids []string) []Exercise {
	out := make([]Exercise, 0, len(ids))
	for _, id := range ids {
		if i, ok := c.byID[id]; ok {
			out = append(out, c.exercises[i])
		}
	}
	return out
}
