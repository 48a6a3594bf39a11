package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/olkan/catalog/internal/quality"
)

// ErrNotFound is returned when a dataset id does not exist in storage.
var ErrNotFound = errors.New("dataset not found")

var idPattern = regexp.MustCompile(`^[a-z0-9-_]+$`)

// Dataset is a catalog record. Timestamps are set by the storage layer.
type Dataset struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	OwnerOrg    string     `json:"owner_org"`
	LicenseID   string     `json:"license_id"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// NewID generates a storage-safe dataset id.
func NewID() string {
	return uuid.NewString()
}

// ValidateID checks the dataset id format (lowercase slug).
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("dataset id is required")
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("dataset id %q must match %s", id, idPattern.String())
	}
	return nil
}

// Metadata converts the dataset into the quality engine's input record.
// Zero-valued fields carry over as missing.
func (d *Dataset) Metadata() quality.Metadata {
	return quality.Metadata{
		Title:       d.Title,
		Description: d.Description,
		Tags:        d.Tags,
		OwnerOrg:    d.OwnerOrg,
		LicenseID:   d.LicenseID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
