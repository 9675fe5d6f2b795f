package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/estatedesk-backend/internal/crud"
	"github.com/angelmondragon/estatedesk-backend/internal/entities"
	"github.com/angelmondragon/estatedesk-backend/pkg/enums"
	"github.com/angelmondragon/estatedesk-backend/pkg/logger"
	"github.com/google/uuid"
)

type (
	PropertyStore = entities.Store[Property, *Property]
	FileStore     = entities.Store[ListingFile, *ListingFile]
	MapStore      = entities.Store[Map, *Map]
	QueryStore    = entities.Store[Query, *Query]
	UserStore     = entities.Store[User, *User]
	TermStore     = entities.Store[Term, *Term]
)

type Options struct {
	Now         func() time.Time
	NewID       func() string
	Recorder    entities.Recorder
	PublicURL   string
	InviteToken func() string
}

// Catalog owns every dashboard entity store.
type Catalog struct {
	Properties *PropertyStore
	Files      *FileStore
	Maps       *MapStore
	Queries    *QueryStore
	Users      *UserStore
	Categories *TermStore
	Cities     *TermStore
	Phases     *TermStore
	Societies  *TermStore

	logg        *logger.Logger
	newID       func() string
	publicURL   string
	inviteToken func() string
}

func New(logg *logger.Logger, opts Options) (*Catalog, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	token := opts.InviteToken
	if token == nil {
		token = uuid.NewString
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	publicURL := strings.TrimRight(opts.PublicURL, "/")
	if publicURL == "" {
		publicURL = "https://your-app.com"
	}

	return &Catalog{
		Properties: entities.NewStore[Property]("property", entities.Options[Property]{
			Now: opts.Now, NewID: opts.NewID, Recorder: opts.Recorder,
		}),
		Files: entities.NewStore[ListingFile]("file", entities.Options[ListingFile]{
			Now: opts.Now, NewID: opts.NewID, Recorder: opts.Recorder,
			OnAdd: func(f *ListingFile) { f.IsFile = true },
		}),
		Maps: entities.NewStore[Map]("map", entities.Options[Map]{
			Now: opts.Now, NewID: opts.NewID, Recorder: opts.Recorder,
		}),
		Queries: entities.NewStore[Query]("query", entities.Options[Query]{
			Now: opts.Now, NewID: opts.NewID, Recorder: opts.Recorder,
			OnAdd: func(q *Query) { q.IsRead = false },
		}),
		Users: entities.NewStore[User]("user", entities.Options[User]{
			Now: opts.Now, NewID: opts.NewID, Recorder: opts.Recorder,
			OnAdd: func(u *User) { u.Status = enums.UserStatusUnconfirmed },
		}),
		Categories: newTermStore("category", opts),
		Cities:     newTermStore("city", opts),
		Phases:     newTermStore("phase", opts),
		Societies:  newTermStore("society", opts),

		logg:        logg,
		newID:       newID,
		publicURL:   publicURL,
		inviteToken: token,
	}, nil
}

func newTermStore(name string, opts Options) *TermStore {
	return entities.NewStore[Term](name, entities.Options[Term]{Now: opts.Now, NewID: opts.NewID, Recorder: opts.Recorder})
}

// MarkAsRead flags a query as read without refreshing its timestamp.
func (c *Catalog) MarkAsRead(ctx context.Context, id string) (Query, error) {
	q, err := c.Queries.Mutate(id, func(q *Query) { q.IsRead = true })
	if err != nil {
		return Query{}, err
	}
	c.logg.Info(c.logg.WithField(ctx, "query_id", id), "query marked as read")
	return q, nil
}

func (c *Catalog) UnreadQueries() int {
	return c.Queries.CountWhere(func(q Query) bool { return !q.IsRead })
}

// SubmitInquiry records a query sent from the public site.
func (c *Catalog) SubmitInquiry(ctx context.Context, input crud.Values) (Query, error) {
	values, err := crud.Validate(queryFields, input)
	if err != nil {
		return Query{}, err
	}
	var q Query
	queryCodec.Apply(&q, values)
	added, err := c.Queries.Add(q)
	if err != nil {
		return Query{}, err
	}
	c.logg.Info(c.logg.WithField(ctx, "query_id", added.ID), "inquiry received")
	return added, nil
}

// InviteLink builds the sign-up link sent to an unconfirmed user.
func (c *Catalog) InviteLink(email string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(email), "+", "%20")
	return fmt.Sprintf("%s/invite?email=%s&token=%s", c.publicURL, escaped, url.QueryEscape(c.inviteToken()))
}

// TermStores lists the taxonomy stores by slug.
func (c *Catalog) TermStores() map[string]*TermStore {
	return map[string]*TermStore{
		"categories": c.Categories,
		"cities":     c.Cities,
		"phases":     c.Phases,
		"societies":  c.Societies,
	}
}
