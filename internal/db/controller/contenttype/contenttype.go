// Package contenttype maps content type names to stable database ids.
package contenttype

import (
	"errors"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gophilo/gophilo/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"
)

var (
	// ErrContentTypeNotFound is returned when a content type is not found.
	ErrContentTypeNotFound = errors.New("content type not found")
	// ErrContentTypeNameEmpty is returned when a content type name is empty.
	ErrContentTypeNameEmpty = errors.New("content type name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// ID returns the id of the content type name, creating the row if missing.
func ID(db *gorm.DB, name string) (uint, error) {
	id, _, err := lookup(db, name)
	return id, err
}

func lookup(db *gorm.DB, name string) (id uint, created bool, err error) {
	if db == nil {
		return 0, false, ErrDBNil
	}
	if name == "" {
		return 0, false, ErrContentTypeNameEmpty
	}

	var ct models.ContentType
	result := db.Where(nameQueryPattern, name).First(&ct)
	if result.Error == nil {
		return ct.ID, false, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, false, result.Error
	}

	// Another writer may have created the row in between
	ct = models.ContentType{Name: name}
	result = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ct)
	if result.Error != nil {
		return 0, false, result.Error
	}
	if ct.ID != 0 && result.RowsAffected > 0 {
		return ct.ID, true, nil
	}

	result = db.Where(nameQueryPattern, name).First(&ct)
	if result.Error != nil {
		return 0, false, result.Error
	}

	return ct.ID, false, nil
}

// Name returns the content type name stored under id.
func Name(db *gorm.DB, id uint) (string, error) {
	if db == nil {
		return "", ErrDBNil
	}

	var ct models.ContentType
	result := db.First(&ct, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", ErrContentTypeNotFound
		}
		return "", result.Error
	}

	return ct.Name, nil
}

// GetAll retrieves all content types from the database.
func GetAll(db *gorm.DB) ([]models.ContentType, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var types []models.ContentType
	result := db.Order("name").Find(&types)
	if result.Error != nil {
		return nil, result.Error
	}

	return types, nil
}

// Cache memoizes name and id lookups. Content type rows are never deleted,
// so entries stay valid for the lifetime of the database.
type Cache struct {
	mu     sync.RWMutex
	byName map[string]uint
	byID   map[uint]string
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		byName: make(map[string]uint),
		byID:   make(map[uint]string),
	}
}

// ID is the cached variant of the package level ID.
func (c *Cache) ID(db *gorm.DB, name string) (uint, error) {
	c.mu.RLock()
	id, ok := c.byName[name]
	c.mu.RUnlock()

	if ok {
		return id, nil
	}

	id, created, err := lookup(db, name)
	if err != nil {
		return 0, err
	}

	// a row created inside an open transaction may still be rolled back
	if !created || !inTransaction(db) {
		c.store(name, id)
	}

	return id, nil
}

// Name is the cached variant of the package level Name.
func (c *Cache) Name(db *gorm.DB, id uint) (string, error) {
	c.mu.RLock()
	name, ok := c.byID[id]
	c.mu.RUnlock()

	if ok {
		return name, nil
	}

	name, err := Name(db, id)
	if err != nil {
		return "", err
	}

	c.store(name, id)

	return name, nil
}

func inTransaction(db *gorm.DB) bool {
	_, ok := db.Statement.ConnPool.(gorm.TxCommitter)
	return ok
}

func (c *Cache) store(name string, id uint) {
	c.mu.Lock()
	c.byName[name] = id
	c.byID[id] = name
	c.mu.Unlock()
}
