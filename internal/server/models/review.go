package models

import "time"

type Review struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	BusinessID int64     `json:"businessId"`
	Dollars    int       `json:"dollars"`
	Stars      int       `json:"stars"`
	Review     string    `json:"review,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (r *Review) Owner() int64 { return r.UserID }

// NewReview is the create payload. Stars is a pointer because zero stars
// is a valid rating distinct from "not given".
type NewReview struct {
	UserID     int64  `json:"userId" validate:"required,gt=0"`
	BusinessID int64  `json:"businessId" validate:"required,gt=0"`
	Dollars    int    `json:"dollars" validate:"required,min=1,max=4"`
	Stars      *int   `json:"stars" validate:"required,min=0,max=5"`
	Review     string `json:"review" validate:"omitempty,max=4000"`
}

func (n *NewReview) Record() *Review {
	r := &Review{
		UserID:     n.UserID,
		BusinessID: n.BusinessID,
		Dollars:    n.Dollars,
		Review:     n.Review,
	}
	if n.Stars != nil {
		r.Stars = *n.Stars
	}
	return r
}

// ReviewPatch excludes userId and businessId.
type ReviewPatch struct {
	Dollars *int    `json:"dollars" validate:"omitempty,min=1,max=4"`
	Stars   *int    `json:"stars" validate:"omitempty,min=0,max=5"`
	Review  *string `json:"review" validate:"omitempty,max=4000"`
}

func (p *ReviewPatch) Changes() Changes {
	var c Changes
	c.addInt("dollars", p.Dollars)
	c.addInt("stars", p.Stars)
	c.addString("review", p.Review)
	return c
}
