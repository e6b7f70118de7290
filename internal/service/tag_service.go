package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"mapsmith/internal/domain"
	"mapsmith/internal/port"
	"mapsmith/internal/session"
	"mapsmith/internal/textutil"
)

// TagBatchInput selects places by index and names the tags to add or remove.
// An empty Indices slice means every place.
type TagBatchInput struct {
	Indices []int    `json:"indices"`
	Tags    []string `json:"tags" binding:"required"`
}

// TagRenameInput renames a tag across places and filter maps.
type TagRenameInput struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// FilterUpdateInput replaces the inclusive/exclusive filter maps. Nil maps
// are untouched.
type FilterUpdateInput struct {
	Inclusive map[string][]string `json:"inclusive"`
	Exclusive map[string][]string `json:"exclusive"`
}

// TagService manages tags on the saved document.
type TagService interface {
	ListTags(sessionID uuid.UUID) ([]string, error)
	AddTags(sessionID uuid.UUID, input TagBatchInput) (domain.MapDocument, error)
	RemoveTags(sessionID uuid.UUID, input TagBatchInput) (domain.MapDocument, error)
	RenameTag(sessionID uuid.UUID, input TagRenameInput) (domain.MapDocument, error)
	UpdateFilters(sessionID uuid.UUID, input FilterUpdateInput) (domain.Filter, error)
	AITagEdit(ctx context.Context, sessionID uuid.UUID, instruction string) (domain.MapDocument, error)
}

type tagService struct {
	store      *session.Store
	structurer port.DocumentStructurer
}

// NewTagService creates a new TagService implementation.
func NewTagService(store *session.Store, structurer port.DocumentStructurer) TagService {
	return &tagService{store: store, structurer: structurer}
}

func (s *tagService) ListTags(sessionID uuid.UUID) ([]string, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Saved.AllTags(), nil
}

func (s *tagService) AddTags(sessionID uuid.UUID, input TagBatchInput) (domain.MapDocument, error) {
	tags := textutil.CleanTags(input.Tags)
	updated, err := s.store.Update(sessionID, func(sess *domain.Session) error {
		indices, err := resolveIndices(&sess.Saved, input.Indices)
		if err != nil {
			return err
		}
		for _, idx := range indices {
			p := &sess.Saved.Data[idx]
			for _, t := range tags {
				if !p.HasTag(t) {
					p.Tags = append(p.Tags, t)
				}
			}
		}
		return nil
	})
	if err != nil {
		return domain.MapDocument{}, err
	}
	log.Printf("tagService.AddTags: session %s, tags %v", sessionID, tags)
	return updated.Saved, nil
}

func (s *tagService) RemoveTags(sessionID uuid.UUID, input TagBatchInput) (domain.MapDocument, error) {
	tags := textutil.CleanTags(input.Tags)
	remove := map[string]struct{}{}
	for _, t := range tags {
		remove[t] = struct{}{}
	}

	updated, err := s.store.Update(sessionID, func(sess *domain.Session) error {
		indices, err := resolveIndices(&sess.Saved, input.Indices)
		if err != nil {
			return err
		}
		for _, idx := range indices {
			p := &sess.Saved.Data[idx]
			kept := p.Tags[:0]
			for _, t := range p.Tags {
				if _, drop := remove[t]; !drop {
					kept = append(kept, t)
				}
			}
			p.Tags = kept
		}
		return nil
	})
	if err != nil {
		return domain.MapDocument{}, err
	}
	return updated.Saved, nil
}

// RenameTag renames a tag everywhere it appears: on places and inside both
// filter maps.
func (s *tagService) RenameTag(sessionID uuid.UUID, input TagRenameInput) (domain.MapDocument, error) {
	updated, err := s.store.Update(sessionID, func(sess *domain.Session) error {
		doc := &sess.Saved
		for i := range doc.Data {
			for j, t := range doc.Data[i].Tags {
				if t == input.From {
					doc.Data[i].Tags[j] = input.To
				}
			}
		}
		renameInFilterMap(doc.Filter.Inclusive, input.From, input.To)
		renameInFilterMap(doc.Filter.Exclusive, input.From, input.To)
		return nil
	})
	if err != nil {
		return domain.MapDocument{}, err
	}
	log.Printf("tagService.RenameTag: session %s, %q -> %q", sessionID, input.From, input.To)
	return updated.Saved, nil
}

func (s *tagService) UpdateFilters(sessionID uuid.UUID, input FilterUpdateInput) (domain.Filter, error) {
	updated, err := s.store.Update(sessionID, func(sess *domain.Session) error {
		session.UpdateFilters(&sess.Saved, input.Inclusive, input.Exclusive)
		return nil
	})
	if err != nil {
		return domain.Filter{}, err
	}
	return updated.Saved.Filter, nil
}

// AITagEdit asks the model to rework the tags of the saved document. The
// instruction is framed so only tags and filters are expected to change.
func (s *tagService) AITagEdit(ctx context.Context, sessionID uuid.UUID, instruction string) (domain.MapDocument, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return domain.MapDocument{}, err
	}
	if sess.Saved.IsEmpty() {
		return domain.MapDocument{}, domain.ErrNoDocument
	}

	framed := fmt.Sprintf("仅修改各地点的 tags 字段和 filter 中的标签分类，其他字段保持不变。%s", instruction)
	doc, err := s.structurer.Edit(ctx, &sess.Saved, framed, nil)
	if err != nil {
		return domain.MapDocument{}, err
	}

	updated, err := s.store.Update(sessionID, func(sess *domain.Session) error {
		session.SetSaved(sess, *doc)
		session.DiscardEdits(sess)
		return nil
	})
	if err != nil {
		return domain.MapDocument{}, err
	}
	return updated.Saved, nil
}

// resolveIndices expands an empty selection to all places and bounds-checks
// an explicit one.
func resolveIndices(doc *domain.MapDocument, indices []int) ([]int, error) {
	if len(indices) == 0 {
		all := make([]int, len(doc.Data))
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(doc.Data) {
			return nil, domain.ErrIndexOutOfRange
		}
	}
	return indices, nil
}

func renameInFilterMap(m map[string][]string, from, to string) {
	for category, tags := range m {
		for i, t := range tags {
			if t == from {
				tags[i] = to
			}
		}
		m[category] = tags
	}
}
