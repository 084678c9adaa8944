package service

import (
	"context"
	"encoding/json"
	"html"
	"log"
	"strconv"
	"strings"

	"github.com/kindnest/kindnest-api/internal/model"
	"github.com/kindnest/kindnest-api/internal/repository"
	"github.com/kindnest/kindnest-api/pkg/database"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

// SearchResults is the payload of the site-wide search endpoint.
type SearchResults struct {
	Posts *database.Page[model.Post] `json:"posts"`
	Users []model.User               `json:"users"`
}

type SearchService interface {
	Search(ctx context.Context, query string, page int) (*SearchResults, error)
	IndexPost(post *model.Post)
	RemovePost(id uint)
}

type searchService struct {
	client    meilisearch.ServiceManager
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	sanitizer *bluemonday.Policy
}

// NewSearchService builds the search layer. client may be nil, in which
// case post search falls back to a database LIKE scan.
func NewSearchService(client meilisearch.ServiceManager, postRepo repository.PostRepository, userRepo repository.UserRepository) SearchService {
	s := &searchService{
		client:    client,
		postRepo:  postRepo,
		userRepo:  userRepo,
		sanitizer: bluemonday.StrictPolicy(),
	}
	if client != nil {
		s.initIndexes()
	}
	return s
}

func (s *searchService) initIndexes() {
	sortable := []string{"date"}
	if _, err := s.client.Index("posts").UpdateSortableAttributes(&sortable); err != nil {
		log.Printf("failed to update posts sortable attributes: %v", err)
	}
}

type meiliPostDoc struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Date   int64  `json:"date"`
}

// cleanTextForIndex strips markup from user-supplied text before it is
// handed to the index.
func (s *searchService) cleanTextForIndex(text string) string {
	sanitized := s.sanitizer.Sanitize(text)
	clean := html.UnescapeString(sanitized)
	return strings.Join(strings.Fields(clean), " ")
}

func (s *searchService) postDocument(post *model.Post) meiliPostDoc {
	return meiliPostDoc{
		ID:     strconv.FormatUint(uint64(post.ID), 10),
		Text:   s.cleanTextForIndex(post.Text),
		Author: s.cleanTextForIndex(post.User.DisplayName),
		Date:   post.CreatedAt.Unix(),
	}
}

func (s *searchService) IndexPost(post *model.Post) {
	if s.client == nil {
		return
	}

	doc := s.postDocument(post)
	if _, err := s.client.Index("posts").AddDocuments([]meiliPostDoc{doc}, primaryKey("id")); err != nil {
		log.Printf("failed to index post %d: %v", post.ID, err)
	}
}

func (s *searchService) RemovePost(id uint) {
	if s.client == nil {
		return
	}
	if _, err := s.client.Index("posts").DeleteDocument(strconv.FormatUint(uint64(id), 10)); err != nil {
		log.Printf("failed to remove post %d from index: %v", id, err)
	}
}

func (s *searchService) Search(ctx context.Context, query string, page int) (*SearchResults, error) {
	users, err := s.userRepo.SearchByName(ctx, query)
	if err != nil {
		return nil, err
	}

	posts, err := s.searchPosts(ctx, query, page)
	if err != nil {
		return nil, err
	}

	return &SearchResults{Posts: posts, Users: users}, nil
}

func (s *searchService) searchPosts(ctx context.Context, query string, page int) (*database.Page[model.Post], error) {
	if s.client == nil {
		return s.postRepo.Search(ctx, query, page, database.DefaultPerPage)
	}

	perPage := database.DefaultPerPage
	res, err := s.client.Index("posts").Search(query, &meilisearch.SearchRequest{
		Offset: int64((page - 1) * perPage),
		Limit:  int64(perPage),
	})
	if err != nil {
		// Index outage shouldn't take search down with it.
		log.Printf("meilisearch query failed, falling back to database: %v", err)
		return s.postRepo.Search(ctx, query, page, perPage)
	}

	ids := make([]uint, 0, len(res.Hits))
	for _, hit := range res.Hits {
		raw, ok := hit["id"]
		if !ok {
			continue
		}
		var rawID string
		if err := json.Unmarshal(raw, &rawID); err != nil {
			continue
		}
		id, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}

	posts, err := s.postRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Restore the index's relevance order.
	byID := make(map[uint]model.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]model.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	posts = ordered

	total := res.EstimatedTotalHits
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	return &database.Page[model.Post]{
		Items:       posts,
		CurrentPage: page,
		PerPage:     perPage,
		TotalItems:  total,
		TotalPages:  totalPages,
	}, nil
}

func primaryKey(s string) *string {
	return &s
}
