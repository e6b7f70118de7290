package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"

	"mapsmith/internal/domain"
	"mapsmith/internal/port"
	"mapsmith/internal/session"
	"mapsmith/internal/validator"
)

// DocumentInfo is the metadata subset exposed by the info endpoints.
type DocumentInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Origin      string        `json:"origin"`
	Filter      domain.Filter `json:"filter"`
}

// InfoUpdateInput is the DTO for metadata updates. Nil fields are untouched.
type InfoUpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Origin      *string `json:"origin"`
}

// Suggestions holds generated metadata proposals derived from the data.
type Suggestions struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Origin      string `json:"origin"`
}

// DocumentService covers structuring, AI edits, the edit lifecycle and the
// raw JSON editor.
type DocumentService interface {
	Structure(ctx context.Context, sessionID uuid.UUID, customPrompt string) (domain.MapDocument, error)
	AIEdit(ctx context.Context, sessionID uuid.UUID, instruction string) (domain.MapDocument, error)
	StartEditing(sessionID uuid.UUID) (domain.Session, error)
	ApplyEdits(sessionID uuid.UUID) (domain.Session, error)
	DiscardEdits(sessionID uuid.UUID) (domain.Session, error)
	GetDocument(sessionID uuid.UUID) (domain.MapDocument, error)
	PutDocument(sessionID uuid.UUID, raw []byte) (domain.MapDocument, error)
	Validate(sessionID uuid.UUID) ([]validator.Issue, error)
	GetInfo(sessionID uuid.UUID) (DocumentInfo, error)
	UpdateInfo(sessionID uuid.UUID, input InfoUpdateInput) (DocumentInfo, error)
	Suggest(sessionID uuid.UUID) (Suggestions, error)
	Stats(sessionID uuid.UUID) (domain.Statistics, error)
	UpdatePlace(sessionID uuid.UUID, index int, place domain.Place) (domain.MapDocument, error)
	AddPlace(sessionID uuid.UUID, place domain.Place) (domain.MapDocument, error)
	RemovePlace(sessionID uuid.UUID, index int) (domain.MapDocument, error)
}

type documentService struct {
	store      *session.Store
	structurer port.DocumentStructurer
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(store *session.Store, structurer port.DocumentStructurer) DocumentService {
	return &documentService{store: store, structurer: structurer}
}

// Structure turns the session's extracted text into a saved document. The
// editing slot is reset to match.
func (s *documentService) Structure(ctx context.Context, sessionID uuid.UUID, customPrompt string) (domain.MapDocument, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return domain.MapDocument{}, err
	}
	if sess.ExtractedText == "" {
		return domain.MapDocument{}, domain.ErrNoExtractedText
	}

	doc, err := s.structurer.Structure(ctx, sess.ExtractedText, customPrompt, nil)
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

	log.Printf("documentService.Structure: session %s, %d places", sessionID, len(updated.Saved.Data))
	return updated.Saved, nil
}

// AIEdit sends the editing document plus the user instruction to the model
// and installs the replacement in the editing slot.
func (s *documentService) AIEdit(ctx context.Context, sessionID uuid.UUID, instruction string) (domain.MapDocument, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return domain.MapDocument{}, err
	}
	if sess.Editing.IsEmpty() && sess.Saved.IsEmpty() {
		return domain.MapDocument{}, domain.ErrNoDocument
	}

	current := sess.Editing
	if current.IsEmpty() {
		current = sess.Saved
	}

	doc, err := s.structurer.Edit(ctx, &current, instruction, nil)
	if err != nil {
		return domain.MapDocument{}, err
	}

	updated, err := s.store.Update(sessionID, func(sess *domain.Session) error {
		session.SetEditing(sess, *doc)
		return nil
	})
	if err != nil {
		return domain.MapDocument{}, err
	}

	log.Printf("documentService.AIEdit: session %s, %d places", sessionID, len(updated.Editing.Data))
	return updated.Editing, nil
}

func (s *documentService) StartEditing(sessionID uuid.UUID) (domain.Session, error) {
	return s.store.Update(sessionID, func(sess *domain.Session) error {
		session.StartEditing(sess)
		return nil
	})
}

func (s *documentService) ApplyEdits(sessionID uuid.UUID) (domain.Session, error) {
	return s.store.Update(sessionID, func(sess *domain.Session) error {
		if !sess.PendingEdits {
			return domain.ErrNoPendingEdits
		}
		session.ApplyEdits(sess)
		return nil
	})
}

func (s *documentService) DiscardEdits(sessionID uuid.UUID) (domain.Session, error) {
	return s.store.Update(sessionID, func(sess *domain.Session) error {
		session.DiscardEdits(sess)
		return nil
	})
}

func (s *documentService) GetDocument(sessionID uuid.UUID) (domain.MapDocument, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return domain.MapDocument{}, err
	}
	return sess.Saved, nil
}

// PutDocument is the raw JSON editor write path: syntax check, structural
// validation, then install as the saved document.
func (s *documentService) PutDocument(sessionID uuid.UUID, raw []byte) (domain.MapDocument, error) {
	if ok, msg := validator.CheckSyntax(raw); !ok {
		return domain.MapDocument{}, fmt.Errorf("%w: %s", domain.ErrInvalidDocument, msg)
	}
	doc, err := validator.ParseDocument(raw)
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

func (s *documentService) Validate(sessionID uuid.UUID) ([]validator.Issue, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return validator.ValidateDocument(&sess.Saved), nil
}

func (s *documentService) GetInfo(sessionID uuid.UUID) (DocumentInfo, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return DocumentInfo{}, err
	}
	return DocumentInfo{
		Name:        sess.Saved.Name,
		Description: sess.Saved.Description,
		Origin:      sess.Saved.Origin,
		Filter:      sess.Saved.Filter,
	}, nil
}

func (s *documentService) UpdateInfo(sessionID uuid.UUID, input InfoUpdateInput) (DocumentInfo, error) {
	updated, err := s.store.Update(sessionID, func(sess *domain.Session) error {
		session.UpdateInfo(&sess.Saved, input.Name, input.Description, input.Origin)
		return nil
	})
	if err != nil {
		return DocumentInfo{}, err
	}
	return DocumentInfo{
		Name:        updated.Saved.Name,
		Description: updated.Saved.Description,
		Origin:      updated.Saved.Origin,
		Filter:      updated.Saved.Filter,
	}, nil
}

func (s *documentService) Suggest(sessionID uuid.UUID) (Suggestions, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return Suggestions{}, err
	}
	return generateSuggestions(&sess.Saved), nil
}

func (s *documentService) Stats(sessionID uuid.UUID) (domain.Statistics, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return domain.Statistics{}, err
	}
	return sess.Saved.Stats(), nil
}

func (s *documentService) UpdatePlace(sessionID uuid.UUID, index int, place domain.Place) (domain.MapDocument, error) {
	updated, err := s.store.Update(sessionID, func(sess *domain.Session) error {
		return session.UpdateEditingPlace(sess, index, place)
	})
	if err != nil {
		return domain.MapDocument{}, err
	}
	return updated.Editing, nil
}

func (s *documentService) AddPlace(sessionID uuid.UUID, place domain.Place) (domain.MapDocument, error) {
	updated, err := s.store.Update(sessionID, func(sess *domain.Session) error {
		session.AddEditingPlace(sess, place)
		return nil
	})
	if err != nil {
		return domain.MapDocument{}, err
	}
	return updated.Editing, nil
}

func (s *documentService) RemovePlace(sessionID uuid.UUID, index int) (domain.MapDocument, error) {
	updated, err := s.store.Update(sessionID, func(sess *domain.Session) error {
		return session.RemoveEditingPlace(sess, index)
	})
	if err != nil {
		return domain.MapDocument{}, err
	}
	return updated.Editing, nil
}

// generateSuggestions proposes metadata from the saved data: the most common
// tags, a shared district or street extracted from the addresses, and the
// dominant source site.
func generateSuggestions(doc *domain.MapDocument) Suggestions {
	out := Suggestions{
		Name:        "新地图",
		Description: "精选地点推荐地图",
		Origin:      "用户收集",
	}
	if doc.IsEmpty() {
		return out
	}

	total := len(doc.Data)
	commonTags := topTags(doc, 3)
	region := extractRegion(doc)

	switch {
	case len(commonTags) > 0 && region != "":
		out.Name = region + strings.Join(firstN(commonTags, 2), "、") + "地图"
	case len(commonTags) > 0:
		out.Name = strings.Join(firstN(commonTags, 2), "、") + "推荐地图"
	case region != "":
		out.Name = region + "生活服务地图"
	default:
		out.Name = fmt.Sprintf("精选%d个地点推荐地图", total)
	}

	var descParts []string
	if region != "" {
		descParts = append(descParts, "位于"+region)
	}
	if len(commonTags) == 1 {
		descParts = append(descParts, "主要包含"+commonTags[0]+"类场所")
	} else if len(commonTags) > 1 {
		descParts = append(descParts, "涵盖"+strings.Join(commonTags, "、")+"等多种类型场所")
	}
	descParts = append(descParts, fmt.Sprintf("共收录%d个精选地点", total))
	out.Description = strings.Join(descParts, "，") + "。"

	if origin := dominantWebName(doc); origin != "" {
		out.Origin = origin
	}
	return out
}

// topTags returns the n most frequent place tags, most frequent first. Ties
// break alphabetically so the result is stable.
func topTags(doc *domain.MapDocument, n int) []string {
	counts := map[string]int{}
	for i := range doc.Data {
		for _, t := range doc.Data[i].Tags {
			t = strings.TrimSpace(t)
			if t != "" {
				counts[t]++
			}
		}
	}
	tags := make([]string, 0, len(counts))
	for t := range counts {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	return firstN(tags, n)
}

// extractRegion looks for a shared district ("区") or street ("街道") in the
// place addresses.
func extractRegion(doc *domain.MapDocument) string {
	var addresses []string
	for i := range doc.Data {
		if addr := strings.TrimSpace(doc.Data[i].Address); addr != "" {
			addresses = append(addresses, addr)
		}
	}

	for _, addr := range addresses {
		before, _, found := strings.Cut(addr, "区")
		if !found {
			continue
		}
		runes := []rune(before)
		if len(runes) >= 2 {
			return string(runes[len(runes)-2:]) + "区"
		}
	}
	for _, addr := range addresses {
		before, _, found := strings.Cut(addr, "街道")
		if !found {
			continue
		}
		runes := []rune(before)
		if len(runes) >= 4 {
			return string(runes[len(runes)-4:]) + "街道"
		}
	}
	return ""
}

// dominantWebName returns the most frequent non-empty webName.
func dominantWebName(doc *domain.MapDocument) string {
	counts := map[string]int{}
	for i := range doc.Data {
		if name := strings.TrimSpace(doc.Data[i].WebName); name != "" {
			counts[name]++
		}
	}
	best := ""
	for name, c := range counts {
		if best == "" || c > counts[best] || (c == counts[best] && name < best) {
			best = name
		}
	}
	return best
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
