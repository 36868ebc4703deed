// Package selector reduces fetched photos to their largest size variant.
// Nothing here performs I/O.
package selector

import (
	"fmt"

	apperrors "photosync/pkg/errors"
	"photosync/pkg/models"
	"photosync/pkg/vk"
)

// DefaultCount is how many photos Select keeps when count is not positive
const DefaultCount = 5

const op = "selector"

// Variant is one resolution of a photo, independent of any API schema
type Variant struct {
	Width  int
	Height int
	URL    string
	Label  string
}

// Area returns width*height, computed in int64 so large images cannot overflow
func (v Variant) Area() int64 {
	return int64(v.Width) * int64(v.Height)
}

// Largest returns the variant with the greatest area. When several share
// the maximal area, the first of them wins. ok is false for an empty list.
func Largest(variants []Variant) (best Variant, ok bool) {
	for i, v := range variants {
		if i == 0 || v.Area() > best.Area() {
			best = v
		}
	}
	return best, len(variants) > 0
}

// Select builds a SelectedPhoto for each of the first count photos, in the
// order the API returned them. A photo without likes, date or size
// variants, or whose largest variant has no URL, is a data shape error.
func Select(photos []vk.Photo, count int) ([]models.SelectedPhoto, error) {
	if count <= 0 {
		count = DefaultCount
	}
	if len(photos) > count {
		photos = photos[:count]
	}

	selected := make([]models.SelectedPhoto, 0, len(photos))
	for i, photo := range photos {
		sp, err := selectOne(photo)
		if err != nil {
			return nil, &apperrors.Error{
				Kind:    apperrors.KindDataShape,
				Op:      op,
				Message: fmt.Sprintf("photo #%d (id %d)", i, photo.ID),
				Err:     err,
			}
		}
		selected = append(selected, sp)
	}
	return selected, nil
}

func selectOne(photo vk.Photo) (models.SelectedPhoto, error) {
	if photo.Likes == nil || photo.Likes.Count == nil {
		return models.SelectedPhoto{}, fmt.Errorf("missing likes.count")
	}
	if photo.Date == nil {
		return models.SelectedPhoto{}, fmt.Errorf("missing date")
	}

	best, ok := Largest(Variants(photo))
	if !ok {
		return models.SelectedPhoto{}, fmt.Errorf("no size variants")
	}
	if best.URL == "" {
		return models.SelectedPhoto{}, fmt.Errorf("size %q has no url", best.Label)
	}

	return models.SelectedPhoto{
		Likes:    *photo.Likes.Count,
		Date:     *photo.Date,
		URL:      best.URL,
		SizeType: best.Label,
	}, nil
}

// Variants converts a photo's sizes into schema-independent variants
func Variants(photo vk.Photo) []Variant {
	variants := make([]Variant, 0, len(photo.Sizes))
	for _, s := range photo.Sizes {
		variants = append(variants, Variant{
			Width:  s.Width,
			Height: s.Height,
			URL:    s.URL,
			Label:  s.Type,
		})
	}
	return variants
}
