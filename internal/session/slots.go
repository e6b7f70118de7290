package session

import (
	"mapsmith/internal/domain"
	"mapsmith/internal/textutil"
	"mapsmith/internal/validator"
)

// The three-slot model: ExtractedText feeds structuring, Saved is the
// authoritative document, Editing is the working copy. Saving promotes
// Editing, discarding resets it from Saved; there is no deeper history.

// SetExtractedText cleans and stores raw OCR/text input.
func SetExtractedText(sess *domain.Session, text string) {
	sess.ExtractedText = textutil.CleanText(text)
}

// SetSaved normalizes and installs the authoritative document, clearing any
// pending edit state.
func SetSaved(sess *domain.Session, doc domain.MapDocument) {
	sess.Saved = validator.NormalizeDocument(doc)
	sess.PendingEdits = false
}

// SetEditing normalizes and installs a working copy, marking edits pending.
func SetEditing(sess *domain.Session, doc domain.MapDocument) {
	sess.Editing = validator.NormalizeDocument(doc)
	sess.PendingEdits = true
}

// StartEditing copies Saved into Editing. Nothing is pending right after.
func StartEditing(sess *domain.Session) {
	sess.Editing = sess.Saved.Clone()
	sess.PendingEdits = false
}

// ApplyEdits promotes Editing to Saved.
func ApplyEdits(sess *domain.Session) {
	sess.Saved = sess.Editing.Clone()
	sess.PendingEdits = false
}

// DiscardEdits resets Editing from Saved.
func DiscardEdits(sess *domain.Session) {
	sess.Editing = sess.Saved.Clone()
	sess.PendingEdits = false
}

// ResetAll clears every slot.
func ResetAll(sess *domain.Session) {
	sess.ExtractedText = ""
	sess.Saved = domain.NewMapDocument()
	sess.Editing = domain.NewMapDocument()
	sess.PendingEdits = false
}

// AddEditingPlace appends a normalized place to the working copy.
func AddEditingPlace(sess *domain.Session, p domain.Place) {
	sess.Editing.Data = append(sess.Editing.Data, validator.NormalizePlace(p))
	sess.PendingEdits = true
}

// UpdateEditingPlace replaces the place at index in the working copy.
func UpdateEditingPlace(sess *domain.Session, index int, p domain.Place) error {
	if index < 0 || index >= len(sess.Editing.Data) {
		return domain.ErrIndexOutOfRange
	}
	sess.Editing.Data[index] = validator.NormalizePlace(p)
	sess.PendingEdits = true
	return nil
}

// RemoveEditingPlace deletes the place at index from the working copy.
func RemoveEditingPlace(sess *domain.Session, index int) error {
	if index < 0 || index >= len(sess.Editing.Data) {
		return domain.ErrIndexOutOfRange
	}
	sess.Editing.Data = append(sess.Editing.Data[:index], sess.Editing.Data[index+1:]...)
	sess.PendingEdits = true
	return nil
}

// UpdateInfo updates the document metadata of the given slot. Nil fields
// are left untouched.
func UpdateInfo(doc *domain.MapDocument, name, description, origin *string) {
	if name != nil {
		doc.Name = textutil.CleanText(*name)
	}
	if description != nil {
		doc.Description = textutil.CleanText(*description)
	}
	if origin != nil {
		doc.Origin = textutil.CleanText(*origin)
	}
}

// UpdateFilters replaces the inclusive/exclusive filter maps of the given
// slot. Nil maps are left untouched.
func UpdateFilters(doc *domain.MapDocument, inclusive, exclusive map[string][]string) {
	if inclusive != nil {
		doc.Filter.Inclusive = inclusive
	}
	if exclusive != nil {
		doc.Filter.Exclusive = exclusive
	}
}

// UpdateCoordinates sets the coordinates of the place at index.
func UpdateCoordinates(doc *domain.MapDocument, index int, lat, lng float64) error {
	if index < 0 || index >= len(doc.Data) {
		return domain.ErrIndexOutOfRange
	}
	doc.Data[index].Center = domain.Coordinate{Lat: lat, Lng: lng}
	return nil
}
