package models

import "time"

type Business struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"ownerId"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Zip         string    `json:"zip"`
	Phone       string    `json:"phone"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Website     string    `json:"website,omitempty"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (b *Business) Owner() int64 { return b.OwnerID }

// BusinessDetail is a business together with its media and reviews.
type BusinessDetail struct {
	*Business
	Photos  []*Photo  `json:"photos"`
	Reviews []*Review `json:"reviews"`
}

type NewBusiness struct {
	OwnerID     int64  `json:"ownerId" validate:"required,gt=0"`
	Name        string `json:"name" validate:"required,max=255"`
	Address     string `json:"address" validate:"required,max=255"`
	City        string `json:"city" validate:"required,max=255"`
	State       string `json:"state" validate:"required,len=2,alpha"`
	Zip         string `json:"zip" validate:"required,len=5,numeric"`
	Phone       string `json:"phone" validate:"required,max=32"`
	Category    string `json:"category" validate:"required,max=255"`
	Subcategory string `json:"subcategory" validate:"required,max=255"`
	Website     string `json:"website" validate:"omitempty,url"`
	Email       string `json:"email" validate:"omitempty,email"`
}

// Record converts the payload into a record ready to insert.
func (n *NewBusiness) Record() *Business {
	return &Business{
		OwnerID:     n.OwnerID,
		Name:        n.Name,
		Address:     n.Address,
		City:        n.City,
		State:       n.State,
		Zip:         n.Zip,
		Phone:       n.Phone,
		Category:    n.Category,
		Subcategory: n.Subcategory,
		Website:     n.Website,
		Email:       n.Email,
	}
}

type BusinessPatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Address     *string `json:"address" validate:"omitempty,min=1,max=255"`
	City        *string `json:"city" validate:"omitempty,min=1,max=255"`
	State       *string `json:"state" validate:"omitempty,len=2,alpha"`
	Zip         *string `json:"zip" validate:"omitempty,len=5,numeric"`
	Phone       *string `json:"phone" validate:"omitempty,min=1,max=32"`
	Category    *string `json:"category" validate:"omitempty,min=1,max=255"`
	Subcategory *string `json:"subcategory" validate:"omitempty,min=1,max=255"`
	Website     *string `json:"website" validate:"omitempty,url"`
	Email       *string `json:"email" validate:"omitempty,email"`
}

func (p *BusinessPatch) Changes() Changes {
	var c Changes
	c.addString("name", p.Name)
	c.addString("address", p.Address)
	c.addString("city", p.City)
	c.addString("state", p.State)
	c.addString("zip", p.Zip)
	c.addString("phone", p.Phone)
	c.addString("category", p.Category)
	c.addString("subcategory", p.Subcategory)
	c.addString("website", p.Website)
	c.addString("email", p.Email)
	return c
}
