package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind discriminates what a draggable identifier refers to
type Kind int

const (
	KindUnknown Kind = iota
	KindContainer
	KindTask
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindTask:
		return "task"
	}
	return "unknown"
}

const (
	containerPrefix = "container-"
	taskPrefix      = "task-"
	itemPrefix      = "item-" // older task ids, same kind as task-
)

// ErrUnknownIDKind is returned when an identifier carries no known kind prefix
var ErrUnknownIDKind = errors.New("unknown identifier kind")

// ID is a draggable entity identifier tagged with its kind.
// The kind is fixed when the id is created or parsed.
type ID struct {
	kind  Kind
	value string
}

// NewContainerID generates a fresh container identifier
func NewContainerID() ID {
	return ID{kind: KindContainer, value: containerPrefix + uuid.New().String()}
}

// NewTaskID generates a fresh task identifier
func NewTaskID() ID {
	return ID{kind: KindTask, value: taskPrefix + uuid.New().String()}
}

// ParseID classifies s by its prefix
func ParseID(s string) (ID, error) {
	switch {
	case strings.HasPrefix(s, containerPrefix):
		return ID{kind: KindContainer, value: s}, nil
	case strings.HasPrefix(s, taskPrefix), strings.HasPrefix(s, itemPrefix):
		return ID{kind: KindTask, value: s}, nil
	}
	return ID{}, fmt.Errorf("%w: %q", ErrUnknownIDKind, s)
}

// MustParseID is ParseID for literals known to be well formed
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) Kind() Kind        { return id.kind }
func (id ID) IsContainer() bool { return id.kind == KindContainer }
func (id ID) IsTask() bool      { return id.kind == KindTask }
func (id ID) IsZero() bool      { return id.value == "" }
func (id ID) String() string    { return id.value }

// MarshalText encodes the id as its string form
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

// UnmarshalText parses and classifies the string form
func (id *ID) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*id = ID{}
		return nil
	}
	parsed, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Scan implements sql.Scanner
func (id *ID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*id = ID{}
		return nil
	case string:
		return id.UnmarshalText([]byte(v))
	case []byte:
		return id.UnmarshalText(v)
	}
	return fmt.Errorf("cannot scan %T into ID", src)
}

// Value implements driver.Valuer
func (id ID) Value() (driver.Value, error) {
	if id.IsZero() {
		return nil, nil
	}
	return id.value, nil
}
