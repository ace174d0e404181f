package source

import "github.com/brocketdesign/chatlamix-uncensored-sub004/internal/domain"

// searchResponse is the wire shape of the character search endpoint. The
// backend sends no "hasMore" field; exhaustion is inferred from an empty
// character list.
type searchResponse struct {
	Characters []characterDTO `json:"characters"`
}

type characterDTO struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"displayName"`
	Slug        string     `json:"slug"`
	AvatarURL   string     `json:"avatarUrl"`
	Images      []imageDTO `json:"images"`
}

type imageDTO struct {
	ID           string `json:"id"`
	ThumbnailURL string `json:"thumbnailUrl"`
	FullURL      string `json:"fullUrl"`
	IsNsfw       bool   `json:"isNsfw"`
	ModelID      string `json:"modelId"`
}

// mapCharacters converts wire characters to domain entries. Entries keep at
// most domain.MaxImagesPerEntry images; characters are mapped even with an
// empty image list, the feed window decides whether to materialize them.
func mapCharacters(dtos []characterDTO) []*domain.CharacterEntry {
	entries := make([]*domain.CharacterEntry, 0, len(dtos))
	for _, dto := range dtos {
		images := make([]domain.ImageRef, 0, len(dto.Images))
		for _, img := range dto.Images {
			images = append(images, domain.ImageRef{
				ID:           img.ID,
				ThumbnailURL: img.ThumbnailURL,
				FullURL:      img.FullURL,
				IsNsfw:       img.IsNsfw,
				ModelID:      img.ModelID,
			})
		}
		entries = append(entries, domain.NewCharacterEntry(dto.ID, dto.DisplayName, dto.Slug, dto.AvatarURL, images))
	}
	return entries
}
