package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the coarse permission level carried in every token.
//
// superadmin sees every record in the company. admin sees records they
// created or that were shared with them. user is a buyer browsing listings
// and chatting with agents.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// IsStaff reports whether the role may use the admin surface.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

type UnitType string

const (
	UnitTypeSale UnitType = "Sale"
	UnitTypeRent UnitType = "Rent"
)

type UnitCategory string

const (
	CategoryApartment UnitCategory = "Apartment"
	CategoryVilla     UnitCategory = "Villa"
	CategoryOffice    UnitCategory = "Office"
	CategoryLand      UnitCategory = "Land"
)

type LeadStatus string

const (
	LeadNew       LeadStatus = "New"
	LeadContacted LeadStatus = "Contacted"
	LeadQualified LeadStatus = "Qualified"
	LeadLost      LeadStatus = "Lost"
)

// Photo points at an object in the photo bucket. URL is what clients render.
type Photo struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Hint string `json:"hint"`
}

// ShareRecord is one entry of a record's share audit trail.
type ShareRecord struct {
	FromID   uuid.UUID `json:"fromId"`
	FromName string    `json:"fromName"`
	ToID     uuid.UUID `json:"toId"`
	ToName   string    `json:"toName"`
	At       time.Time `json:"at"`
}

// Unit is a property listing.
//
// ClientName/ClientPhone are denormalized contact fields. They link to a
// Client or Broker by phone string, not by foreign key.
type Unit struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Type          UnitType      `json:"type"`
	Category      UnitCategory  `json:"category"`
	Description   string        `json:"description"`
	Price         float64       `json:"price"`
	City          string        `json:"city"`
	Governorate   string        `json:"governorate"`
	Photos        []Photo       `json:"photos"`
	Bedrooms      *int          `json:"bedrooms,omitempty"`
	Bathrooms     *int          `json:"bathrooms,omitempty"`
	Area          *float64      `json:"area,omitempty"`
	ClientName    string        `json:"clientName,omitempty"`
	ClientPhone   string        `json:"clientPhone,omitempty"`
	FromBroker    bool          `json:"fromBroker"`
	CreatedBy     uuid.UUID     `json:"createdBy"`
	CreatedByName string        `json:"createdByName"`
	SharedWith    []uuid.UUID   `json:"sharedWith,omitempty"`
	ShareHistory  []ShareRecord `json:"shareHistory,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// PublicUnit is the listing as shown to anonymous visitors: no CRM fields.
type PublicUnit struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Type        UnitType     `json:"type"`
	Category    UnitCategory `json:"category"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	City        string       `json:"city"`
	Governorate string       `json:"governorate"`
	Photos      []Photo      `json:"photos"`
	Bedrooms    *int         `json:"bedrooms,omitempty"`
	Bathrooms   *int         `json:"bathrooms,omitempty"`
	Area        *float64     `json:"area,omitempty"`
}

func (u *Unit) Public() PublicUnit {
	return PublicUnit{
		ID:          u.ID,
		Title:       u.Title,
		Type:        u.Type,
		Category:    u.Category,
		Description: u.Description,
		Price:       u.Price,
		City:        u.City,
		Governorate: u.Governorate,
		Photos:      u.Photos,
		Bedrooms:    u.Bedrooms,
		Bathrooms:   u.Bathrooms,
		Area:        u.Area,
	}
}

// Lead is a sales-pipeline record.
type Lead struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Status        LeadStatus    `json:"status"`
	CreatedBy     uuid.UUID     `json:"createdBy"`
	CreatedByName string        `json:"createdByName"`
	SharedWith    []uuid.UUID   `json:"sharedWith,omitempty"`
	ShareHistory  []ShareRecord `json:"shareHistory,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Client is a property owner. ID is the digits of Phone.
type Client struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	CreatedBy     uuid.UUID `json:"createdBy"`
	CreatedByName string    `json:"createdByName"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DefaultBrokerCompany is stored for brokers created without a company.
const DefaultBrokerCompany = "Unknown"

// Broker is an outside agent who brings units. ID is the digits of Phone.
type Broker struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Company       string    `json:"company"`
	Phone         string    `json:"phone"`
	CreatedBy     uuid.UUID `json:"createdBy"`
	CreatedByName string    `json:"createdByName"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AdminUser is a staff account. Visible=false suspends the account without
// deleting it.
type AdminUser struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Tasks        []string  `json:"tasks"`
	Visible      bool      `json:"visible"`
	CreatedAt    time.Time `json:"createdAt"`
}

// User is a buyer account.
type User struct {
	ID           uuid.UUID `json:"uid"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Sender string

const (
	SenderUser  Sender = "user"
	SenderAdmin Sender = "admin"
)

type ChatMessage struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Chat is one conversation per (user, unit) pair. The whole message history
// lives inline in the document.
type Chat struct {
	ID            string        `json:"id"`
	UnitID        uuid.UUID     `json:"unitId"`
	UnitTitle     string        `json:"unitTitle"`
	UserID        uuid.UUID     `json:"userId"`
	UserName      string        `json:"userName"`
	Messages      []ChatMessage `json:"messages"`
	LastMessageAt time.Time     `json:"lastMessageAt"`
	ReadByAdmin   bool          `json:"readByAdmin"`
}

// ChatID builds the document id for a (user, unit) conversation.
func ChatID(userID, unitID uuid.UUID) string {
	return userID.String() + "_" + unitID.String()
}
