package models

// Site binds a host name to the root page served for it.
type Site struct {
	// ID is the unique identifier for the site.
	ID uint `gorm:"primaryKey"`
	// Domain is the host name, without port.
	Domain string `gorm:"size:255;not null;unique"`
	// Name is the display name of the site.
	Name string `gorm:"size:255"`
	// RootPageID is the page served at "/". Nil serves the page forest roots.
	RootPageID *uint `gorm:"index"`
	// RootPage is the associated root page.
	RootPage *Page `gorm:"foreignKey:RootPageID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE"`
}

// TableName specifies the database table name for the Site model.
func (Site) TableName() string {
	return "sites"
}

// ContentType returns the registry name of the Site model.
func (*Site) ContentType() string { return "site" }

// ObjectID returns the primary key.
func (s *Site) ObjectID() uint { return s.ID }
