package models

import "time"

// Photo is image metadata. The image bytes live in object storage under
// StorageKey and are transferred by the client through presigned URLs.
type Photo struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	BusinessID  int64     `json:"businessId"`
	Caption     string    `json:"caption,omitempty"`
	StorageKey  string    `json:"-"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p *Photo) Owner() int64 { return p.UserID }

// PhotoView is a photo as returned to clients, with a temporary link to
// its content.
type PhotoView struct {
	*Photo
	URL string `json:"url,omitempty"`
}

type NewPhoto struct {
	UserID      int64  `json:"userId" validate:"required,gt=0"`
	BusinessID  int64  `json:"businessId" validate:"required,gt=0"`
	Caption     string `json:"caption" validate:"omitempty,max=1000"`
	ContentType string `json:"contentType" validate:"required,oneof=image/jpeg image/png image/gif image/webp"`
}

func (n *NewPhoto) Record(storageKey string) *Photo {
	return &Photo{
		UserID:      n.UserID,
		BusinessID:  n.BusinessID,
		Caption:     n.Caption,
		StorageKey:  storageKey,
		ContentType: n.ContentType,
	}
}

// PhotoUpload is returned after a photo record is created. The client
// PUTs the image to UploadURL before it expires.
type PhotoUpload struct {
	ID        int64  `json:"id"`
	UploadURL string `json:"uploadUrl"`
}

// PhotoPatch excludes userId and businessId.
type PhotoPatch struct {
	Caption *string `json:"caption" validate:"omitempty,max=1000"`
}

func (p *PhotoPatch) Changes() Changes {
	var c Changes
	c.addString("caption", p.Caption)
	return c
}
