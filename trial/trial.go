// Package trial records evaluated points of parameter spaces and persists
// them in an embedded badger database.
//
// A Trial keeps two views of one evaluation:
//
//	Point  - the label -> value assignment as the engine produced it
//	Values - parameter name -> sampled value tree, ready for decode
//
// Values is what a Trial serves as a lookup scope: Lookup(name) hands back
// the stored value tree so a parameter loader can skip sampling.
//
// The store encodes trials as JSON, so a trial read back by Get is not
// kind-identical to the one given to Put: integers come back as float64 and
// every slice kind, decode.Tuple included, comes back as []any. Maps keep
// their string keys. A loader decoding a stored trial gets the JSON kinds.
package trial

import (
	"errors"
	"maps"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no trial has the requested ID.
	ErrNotFound = errors.New("trial: not found")

	// ErrInvalid is returned by Put for a trial failing validation.
	ErrInvalid = errors.New("trial: invalid trial")

	// ErrConfig is returned by Open for an unusable configuration.
	ErrConfig = errors.New("trial: invalid store config")
)

// Trial is one evaluated point.
type Trial struct {
	ID      string         `json:"id"      validate:"required,uuid"`
	Space   string         `json:"space"   validate:"required"`
	Created time.Time      `json:"created" validate:"required"`
	Point   map[string]any `json:"point,omitempty"`
	Values  map[string]any `json:"values"`
}

// New creates a trial for space with a fresh ID. The maps are copied.
func New(space string, point, values map[string]any) *Trial {
	return &Trial{
		ID:      uuid.NewString(),
		Space:   space,
		Created: time.Now().UTC(),
		Point:   maps.Clone(point),
		Values:  maps.Clone(values),
	}
}

// Lookup returns the stored value tree for the parameter name. For a trial
// read from a Store, the tree carries JSON kinds (see the package doc).
func (t *Trial) Lookup(name string) (any, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.Values[name]
	return v, ok
}

// trialValidate checks trials before they are written.
var trialValidate *validator.Validate

func init() {
	trialValidate = validator.New()
}
